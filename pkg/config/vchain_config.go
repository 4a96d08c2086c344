// Copyright 2025 Certen Protocol
//
// VerifierConfig: the YAML-plus-environment-variable configuration for a
// vchain+ verifier service, following the teacher's AnchorConfig
// substitution idiom (see env.go).

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VerifierConfig holds the values a verifier service needs beyond what is
// carried in the VO/DAG it is handed at call time: the accumulator's public
// parameters, the ID-tree's shape, and where to bind its own key material
// and metrics.
type VerifierConfig struct {
	AccumulatorBound uint32 `yaml:"accumulator_bound"`
	IDTreeFanout     uint8  `yaml:"id_tree_fanout"`
	MaxIDNum         uint32 `yaml:"max_id_num"`
	MetricsAddr      string `yaml:"metrics_addr"`
	KeyPath          string `yaml:"key_path"`
}

// LoadVerifierConfig reads path, substitutes ${VAR}/${VAR:-default}
// environment references, and parses the result as YAML.
func LoadVerifierConfig(path string) (*VerifierConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg VerifierConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *VerifierConfig) applyDefaults() {
	if c.MetricsAddr == "" {
		c.MetricsAddr = getEnv("VCHAIN_METRICS_ADDR", "0.0.0.0:9090")
	}
	if c.KeyPath == "" {
		c.KeyPath = getEnv("VCHAIN_KEY_PATH", "./data/vchain.key")
	}
	if c.IDTreeFanout == 0 {
		c.IDTreeFanout = 16
	}
}

// Validate rejects a configuration that cannot back a working verifier.
func (c *VerifierConfig) Validate() error {
	if c.AccumulatorBound == 0 {
		return fmt.Errorf("config: accumulator_bound must be positive")
	}
	if c.MaxIDNum == 0 {
		return fmt.Errorf("config: max_id_num must be positive")
	}
	if c.IDTreeFanout < 2 {
		return fmt.Errorf("config: id_tree_fanout must be at least 2")
	}
	return nil
}
