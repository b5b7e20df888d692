// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the node configuration from a yaml file.
package config

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/genesis"
	"github.com/vechain/veescrow/thor"
)

// DefaultCheckpointCron fires at every week boundary, Thursday 00:00 UTC.
const DefaultCheckpointCron = "0 0 * * 4"

// Config holds the node configuration.
type Config struct {
	// Genesis of a custom network; devnet when omitted.
	Genesis *Genesis `yaml:"genesis"`
	Penalty struct {
		Enabled    bool   `yaml:"enabled"`
		MaxPercent uint64 `yaml:"max_percent"`
	} `yaml:"penalty"`
	Schedule struct {
		CheckpointCron string `yaml:"checkpoint_cron"`
		Disabled       bool   `yaml:"disabled"`
	} `yaml:"schedule"`
	Cache struct {
		Points  int `yaml:"points"`
		QueryMB int `yaml:"query_mb"`
	} `yaml:"cache"`
}

// Genesis is the yaml form of genesis.CustomGenesis.
type Genesis struct {
	Name        string    `yaml:"name"`
	LaunchTime  uint64    `yaml:"launch_time"`
	MaxTime     uint64    `yaml:"max_time"`
	ReplayLimit uint64    `yaml:"replay_limit"`
	PenaltyPool string    `yaml:"penalty_pool"`
	Accounts    []Account `yaml:"accounts"`
}

// Account is a token allocation. Balance is a decimal or 0x prefixed hex string in base units.
type Account struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// Load reads the config file at path, then applies environment overrides and defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config")
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config")
			}
		}
	}

	if v := os.Getenv("VEESCROW_CHECKPOINT_CRON"); v != "" {
		cfg.Schedule.CheckpointCron = v
	}

	if cfg.Schedule.CheckpointCron == "" {
		cfg.Schedule.CheckpointCron = DefaultCheckpointCron
	}
	if cfg.Penalty.Enabled && cfg.Penalty.MaxPercent == 0 {
		cfg.Penalty.MaxPercent = 75
	}
	return cfg, cfg.Validate()
}

// Validate checks the values a node cannot start with.
func (c *Config) Validate() error {
	if c.Penalty.MaxPercent > 100 {
		return errors.Errorf("penalty.max_percent %d above 100", c.Penalty.MaxPercent)
	}
	if _, err := cron.ParseStandard(c.Schedule.CheckpointCron); err != nil {
		return errors.Wrap(err, "schedule.checkpoint_cron")
	}
	if c.Cache.Points < 0 || c.Cache.QueryMB < 0 {
		return errors.New("cache sizes must not be negative")
	}
	return nil
}

// Policy returns the early withdrawal policy, nil when disabled.
func (c *Config) Policy() penalty.Policy {
	if !c.Penalty.Enabled {
		return nil
	}
	return penalty.Linear{MaxPercent: c.Penalty.MaxPercent}
}

// BuildGenesis returns the configured genesis, or devnet.
func (c *Config) BuildGenesis() (*genesis.Genesis, error) {
	if c.Genesis == nil {
		return genesis.NewDevnet(), nil
	}
	gen := &genesis.CustomGenesis{
		Name:        c.Genesis.Name,
		LaunchTime:  c.Genesis.LaunchTime,
		MaxTime:     c.Genesis.MaxTime,
		ReplayLimit: c.Genesis.ReplayLimit,
	}
	if c.Genesis.PenaltyPool != "" {
		pool, err := thor.ParseAddress(c.Genesis.PenaltyPool)
		if err != nil {
			return nil, errors.Wrap(err, "genesis.penalty_pool")
		}
		gen.PenaltyPool = pool
	}
	for i, acc := range c.Genesis.Accounts {
		addr, err := thor.ParseAddress(acc.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "genesis.accounts[%d].address", i)
		}
		balance, ok := new(big.Int).SetString(acc.Balance, 0)
		if !ok || balance.Sign() < 0 {
			return nil, errors.Errorf("genesis.accounts[%d].balance: invalid %q", i, acc.Balance)
		}
		gen.Accounts = append(gen.Accounts, genesis.Account{Address: addr, Balance: balance})
	}
	return genesis.NewCustomNet(gen)
}
