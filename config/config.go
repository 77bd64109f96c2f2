package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pelletier/go-toml"
)

const (
	DefaultChainId = 31337
	DefaultBalance = "10000"
	DefaultToken   = "MATIC"
	DefaultGasAPI  = "https://api.polygonscan.com/api?module=proxy&action=eth_gasPrice"
)

// the well known development accounts, funded on a fresh chain
var defaultKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
}

type Chain struct {
	ChainId     int64    `toml:"chain-id"`
	Balance     string   `toml:"balance"`
	Keys        []string `toml:"keys"`
	DeployerKey string   `toml:"deployer-key" env:"TEST_PRIVATE_KEY"`
}

// Networks are remote endpoint URLs, kept for tooling that publishes to
// public test networks.
type Networks struct {
	Kovan   string `toml:"kovan" env:"API_URL_KOVAN"`
	Ropsten string `toml:"ropsten" env:"API_URL_ROPSTEN"`
}

type Etherscan struct {
	APIKey string `toml:"api-key" env:"ETHERSCAN_API_KEY"`
}

type GasReporter struct {
	Enabled       bool   `toml:"enabled"`
	Currency      string `toml:"currency" env:"COINMARKETCAP_DEFAULT_CURRENCY"`
	CoinMarketCap string `toml:"coinmarketcap" env:"COINMARKETCAP_API_KEY"`
	GasPriceAPI   string `toml:"gas-price-api"`
	Token         string `toml:"token"`
}

type Configuration struct {
	Chain       Chain       `toml:"chain"`
	Networks    Networks    `toml:"networks"`
	Etherscan   Etherscan   `toml:"etherscan"`
	GasReporter GasReporter `toml:"gas-reporter"`
}

// Setup reads the TOML file at path, a missing file gives the defaults,
// then environment variables override the file.
func Setup(path string) (*Configuration, error) {
	var conf Configuration
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(data) > 0 {
		err = toml.Unmarshal(data, &conf)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	err = env.Parse(&conf)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	conf.applyDefaults()
	_, err = conf.Keys()
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Configuration) applyDefaults() {
	if c.Chain.ChainId == 0 {
		c.Chain.ChainId = DefaultChainId
	}
	if c.Chain.Balance == "" {
		c.Chain.Balance = DefaultBalance
	}
	if len(c.Chain.Keys) == 0 {
		c.Chain.Keys = defaultKeys
	}
	if c.GasReporter.GasPriceAPI == "" {
		c.GasReporter.GasPriceAPI = DefaultGasAPI
	}
	if c.GasReporter.Token == "" {
		c.GasReporter.Token = DefaultToken
	}
}

// Keys returns the funded accounts, the deployer key comes first when
// it is configured.
func (c *Configuration) Keys() ([]*ecdsa.PrivateKey, error) {
	raw := c.Chain.Keys
	if c.Chain.DeployerKey != "" {
		raw = append([]string{c.Chain.DeployerKey}, raw...)
	}
	seen := make(map[string]bool)
	var keys []*ecdsa.PrivateKey
	for _, k := range raw {
		k = strings.TrimPrefix(strings.TrimSpace(k), "0x")
		if seen[k] {
			continue
		}
		seen[k] = true
		key, err := crypto.HexToECDSA(k)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, errors.New("no accounts configured")
	}
	return keys, nil
}

func (c *Configuration) Genesis() (*ledger.Configuration, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, err
	}
	lc := &ledger.Configuration{ChainId: c.Chain.ChainId}
	for _, k := range keys {
		lc.Accounts = append(lc.Accounts, ledger.GenesisAccount{
			Address: crypto.PubkeyToAddress(k.PublicKey),
			Balance: c.Chain.Balance,
		})
	}
	return lc, nil
}

// Redacted is a copy safe to print, secrets keep only a short prefix.
func (c *Configuration) Redacted() *Configuration {
	r := *c
	r.Chain.Keys = make([]string, len(c.Chain.Keys))
	for i, k := range c.Chain.Keys {
		r.Chain.Keys[i] = redact(k)
	}
	r.Chain.DeployerKey = redact(c.Chain.DeployerKey)
	r.Etherscan.APIKey = redact(c.Etherscan.APIKey)
	r.GasReporter.CoinMarketCap = redact(c.GasReporter.CoinMarketCap)
	return &r
}

func redact(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[:4] + strings.Repeat("*", 8)
}
