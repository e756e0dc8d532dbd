package common

import (
	"fmt"
	"os"
	"path/filepath"

	"wallet-sync-go/internal/models"

	"gopkg.in/yaml.v2"
)

// SeedUser declares a user plus their per-chain-type wallet addresses.
type SeedUser struct {
	Id        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Email     string            `yaml:"email"`
	Addresses map[string]string `yaml:"addresses"` // chain type -> address
}

type SeedAsset struct {
	Symbol          string `yaml:"symbol"`
	Name            string `yaml:"name"`
	Chain           string `yaml:"chain"`
	ChainType       string `yaml:"chainType"`
	ContractAddress string `yaml:"contractAddress"`
	Decimals        int32  `yaml:"decimals"`
	IsNative        bool   `yaml:"isNative"`
}

type SeedEndpoint struct {
	ChainType string `yaml:"chainType"`
	ChainName string `yaml:"chainName"`
	Network   string `yaml:"network"`
	URL       string `yaml:"url"`
	Priority  int    `yaml:"priority"`
}

// SeedConfig is the setup tool's input: everything the reconciliation
// engine reads as configuration snapshots.
type SeedConfig struct {
	Users     []SeedUser     `yaml:"users"`
	Assets    []SeedAsset    `yaml:"assets"`
	Endpoints []SeedEndpoint `yaml:"endpoints"`
}

func LoadSeedConfig(seedFile string) (*SeedConfig, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, asset := range config.Assets {
		if asset.Symbol == "" {
			return nil, fmt.Errorf("asset at index %d missing symbol", i)
		}
		if asset.Chain == "" {
			return nil, fmt.Errorf("asset at index %d missing chain", i)
		}
		if !validChainType(asset.ChainType) {
			return nil, fmt.Errorf("asset %s has invalid chainType %q", asset.Symbol, asset.ChainType)
		}
		if asset.Decimals < 0 {
			return nil, fmt.Errorf("asset %s has negative decimals", asset.Symbol)
		}
	}
	for i, endpoint := range config.Endpoints {
		if endpoint.URL == "" {
			return nil, fmt.Errorf("endpoint at index %d missing url", i)
		}
		if !validChainType(endpoint.ChainType) {
			return nil, fmt.Errorf("endpoint at index %d has invalid chainType %q", i, endpoint.ChainType)
		}
		if endpoint.Network != "mainnet" && endpoint.Network != "testnet" {
			return nil, fmt.Errorf("endpoint at index %d has invalid network %q", i, endpoint.Network)
		}
	}

	return &config, nil
}

func validChainType(value string) bool {
	switch models.ChainType(value) {
	case models.ChainTypeEVM, models.ChainTypeSVM, models.ChainTypeTron,
		models.ChainTypeTon, models.ChainTypeBTC:
		return true
	}
	return false
}
