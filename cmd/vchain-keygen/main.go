// Copyright 2025 Certen Protocol
//
// vchain-keygen generates an accumulator trapdoor and its derived public
// key for a given bound q, writing both as hex-encoded files, following
// the key_manager.go hex-file idiom.

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/certen/vchainplus/pkg/accumulator"
)

func main() {
	var (
		q       = flag.Uint("q", 1024, "accumulator bound (largest element value a set may hold)")
		outDir  = flag.String("out", "./data", "directory to write secret.key and public.key into")
		seedHex = flag.String("seed", "", "optional hex-encoded 64-byte seed (s||r) for deterministic setup; random if unset")
	)
	flag.Parse()

	if err := run(uint32(*q), *outDir, *seedHex); err != nil {
		fmt.Fprintf(os.Stderr, "vchain-keygen: %v\n", err)
		os.Exit(1)
	}
}

func run(q uint32, outDir, seedHex string) error {
	sk, err := loadOrRandSecretKey(seedHex)
	if err != nil {
		return fmt.Errorf("secret key: %w", err)
	}

	skc, err := accumulator.NewAccSecretKeyWithPowCache(sk, q)
	if err != nil {
		return fmt.Errorf("build power cache: %w", err)
	}
	pk, err := accumulator.GenKey(skc, q)
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := os.MkdirAll(outDir, 0700); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	secretPath := filepath.Join(outDir, "secret.key")
	if err := os.WriteFile(secretPath, []byte(hex.EncodeToString(sk.Bytes())), 0600); err != nil {
		return fmt.Errorf("write %s: %w", secretPath, err)
	}

	publicPath := filepath.Join(outDir, "public.key")
	if err := os.WriteFile(publicPath, []byte(hex.EncodeToString(pk.Marshal())), 0644); err != nil {
		return fmt.Errorf("write %s: %w", publicPath, err)
	}

	fmt.Printf("wrote %s and %s (q=%d)\n", secretPath, publicPath, q)
	return nil
}

func loadOrRandSecretKey(seedHex string) (*accumulator.AccSecretKey, error) {
	if seedHex == "" {
		return accumulator.RandAccSecretKey()
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode seed hex: %w", err)
	}
	return accumulator.SecretKeyFromBytes(seed)
}
