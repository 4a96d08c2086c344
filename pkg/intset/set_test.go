// Copyright 2025 Certen Protocol

package intset

import (
	"sort"
	"sync"
	"testing"
)

func TestNewDedupsAndSorts(t *testing.T) {
	s := New(3, 1, 2, 1, 3)
	if got := s.Elements(); !equalSlices(got, []uint32{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestUnionIntersectDiff(t *testing.T) {
	a := New(1, 2, 3)
	b := New(2, 3, 4)

	if u := Union(a, b); !equalSlices(u.Elements(), []uint32{1, 2, 3, 4}) {
		t.Fatalf("union: got %v", u.Elements())
	}
	if i := Intersect(a, b); !equalSlices(i.Elements(), []uint32{2, 3}) {
		t.Fatalf("intersect: got %v", i.Elements())
	}
	if d := Diff(a, b); !equalSlices(d.Elements(), []uint32{1}) {
		t.Fatalf("diff: got %v", d.Elements())
	}
}

func TestEmptySet(t *testing.T) {
	var s *Set
	if !s.Empty() {
		t.Fatalf("nil set should be empty")
	}
	empty := New()
	if !empty.Empty() {
		t.Fatalf("New() with no elements should be empty")
	}
}

func TestContains(t *testing.T) {
	s := New(1, 5, 9)
	if !s.Contains(5) {
		t.Fatalf("expected 5 to be contained")
	}
	if s.Contains(6) {
		t.Fatalf("did not expect 6 to be contained")
	}
}

func TestEqual(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 2, 1)
	if !a.Equal(b) {
		t.Fatalf("expected equal sets regardless of insertion order")
	}
	c := New(1, 2)
	if a.Equal(c) {
		t.Fatalf("did not expect differently-sized sets to be equal")
	}
}

func TestParallelEachMatchesSequential(t *testing.T) {
	s := New(makeRange(1, 500)...)

	var mu sync.Mutex
	var seen []uint32
	s.ParallelEach(func(x uint32) {
		mu.Lock()
		seen = append(seen, x)
		mu.Unlock()
	})

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	if !equalSlices(seen, s.Elements()) {
		t.Fatalf("parallel iteration produced a different multiset")
	}
}

func makeRange(lo, hi uint32) []uint32 {
	out := make([]uint32, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func equalSlices(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
