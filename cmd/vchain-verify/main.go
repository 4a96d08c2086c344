// Copyright 2025 Certen Protocol
//
// vchain-verify loads a serialized VO bundle (query DAG, Verification
// Object, claimed result content, and the chain block heads it is checked
// against) plus an accumulator public key from disk, runs Verifier.Verify,
// and prints the resulting VerifyInfo.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/chainreader"
	"github.com/certen/vchainplus/pkg/config"
	"github.com/certen/vchainplus/pkg/logging"
	"github.com/certen/vchainplus/pkg/metrics"
	"github.com/certen/vchainplus/pkg/verifier"
)

func main() {
	var (
		pubKeyPath = flag.String("pubkey", "./data/public.key", "path to a hex-encoded accumulator public key")
		bundlePath = flag.String("bundle", "", "path to a VO bundle JSON file")
		configPath = flag.String("config", "", "optional path to a VerifierConfig YAML file")
	)
	flag.Parse()

	log := logging.New("vchain-verify")

	if *bundlePath == "" {
		fmt.Fprintln(os.Stderr, "vchain-verify: -bundle is required")
		os.Exit(2)
	}

	info, err := run(*pubKeyPath, *bundlePath, *configPath, log)
	if err != nil {
		log.Error("verification failed: %v", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(info, "", "  ")
	fmt.Println(string(out))
}

func run(pubKeyPath, bundlePath, configPath string, log *logging.Logger) (verifier.VerifyInfo, error) {
	pubBytes, err := os.ReadFile(pubKeyPath)
	if err != nil {
		return verifier.VerifyInfo{}, fmt.Errorf("read public key %s: %w", pubKeyPath, err)
	}
	pk, err := accumulator.UnmarshalPublicKey(pubBytes)
	if err != nil {
		return verifier.VerifyInfo{}, fmt.Errorf("parse public key: %w", err)
	}

	maxIDNum := uint32(1 << 20)
	idTreeFanout := uint8(16)
	if configPath != "" {
		cfg, err := config.LoadVerifierConfig(configPath)
		if err != nil {
			return verifier.VerifyInfo{}, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return verifier.VerifyInfo{}, fmt.Errorf("invalid config: %w", err)
		}
		maxIDNum = cfg.MaxIDNum
		idTreeFanout = cfg.IDTreeFanout
	}

	resultContent, vo, dag, heads, err := loadBundle(bundlePath)
	if err != nil {
		return verifier.VerifyInfo{}, fmt.Errorf("load bundle %s: %w", bundlePath, err)
	}

	chain := chainreader.NewMemoryChainReader(verifier.Parameter{
		MaxIDNum:     maxIDNum,
		IDTreeFanout: idTreeFanout,
		Q:            pk.Bound(),
	})
	for _, h := range heads {
		chain.PutBlockHead(h.Height, h)
	}

	log.Info("verifying query %s against %d recorded block heads", vo.QueryID, chain.Len())

	collector := metrics.NewCollector()
	start := time.Now()
	info, err := verifier.New(pk, chain).Verify(resultContent, vo, dag)
	elapsed := time.Since(start)
	if err != nil {
		collector.Observe(metrics.OutcomeFailure, elapsed.Seconds(), 0)
		return verifier.VerifyInfo{}, err
	}
	collector.Observe(metrics.OutcomeOK, elapsed.Seconds(), info.VOSize.TotalS)
	return info, nil
}
