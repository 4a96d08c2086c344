// Copyright 2025 Certen Protocol

package digest

import "testing"

func TestDigestEqual(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if !a.Equal(b) {
		t.Fatalf("expected equal digests, got %s vs %s", a, b)
	}
}

func TestDigestDeterminism(t *testing.T) {
	// Two independent computations of the same composite hash must be
	// bitwise identical (spec property 4: digest determinism).
	a := Sum([]byte("alpha"), []byte("beta"))
	b := Sum([]byte("alpha"), []byte("beta"))
	if a != b {
		t.Fatalf("non-deterministic digest: %s != %s", a, b)
	}
}

func TestDigestOrderingSensitivity(t *testing.T) {
	a := Sum([]byte("alpha"), []byte("beta"))
	b := Sum([]byte("beta"), []byte("alpha"))
	if a == b {
		t.Fatalf("expected different digests for different field order")
	}
}

func TestDigestHexRoundTrip(t *testing.T) {
	d := Sum([]byte("round-trip"))
	parsed, err := FromHex(d.Hex())
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if parsed != d {
		t.Fatalf("hex round trip mismatch: %s != %s", parsed, d)
	}
}

func TestFromBytesWrongLength(t *testing.T) {
	if _, err := FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short byte slice")
	}
}

func TestZeroDigest(t *testing.T) {
	var d Digest
	if !d.IsZero() {
		t.Fatalf("expected zero-value Digest to be zero")
	}
	d[0] = 1
	if d.IsZero() {
		t.Fatalf("expected non-zero Digest")
	}
}

func TestStateIncrementalEqualsSum(t *testing.T) {
	s := NewState()
	s.Update([]byte("a"))
	s.Update([]byte("b"))
	incremental := s.Finalize()

	whole := Sum([]byte("a"), []byte("b"))
	if incremental != whole {
		t.Fatalf("incremental update diverges from Sum: %s != %s", incremental, whole)
	}
}
