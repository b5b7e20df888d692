// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/thor"
)

var logger = log.WithContext("pkg", "solidity")

// ConfigVariable is a parameter with a compiled-in default that genesis may override in storage.
type ConfigVariable struct {
	slot        thor.Bytes32
	name        string
	value       uint64
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:  thor.Slot(name),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Get() uint64 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

// Store writes the value into the storage slot, so later overrides pick it up.
func (c *ConfigVariable) Store(ctx *Context, value uint64) {
	ctx.state.SetStorage(ctx.address, c.slot, thor.BytesToBytes32(new(big.Int).SetUint64(value).Bytes()))
	c.value = value
	c.initialised = true
}

// Override loads the stored value once. A zero or unreadable slot keeps the default.
func (c *ConfigVariable) Override(ctx *Context) {
	if c.initialised {
		return
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		logger.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return
	}
	num := new(big.Int).SetBytes(storage.Bytes())

	c.initialised = true

	if num.Sign() != 0 && num.IsUint64() {
		c.value = num.Uint64()
		logger.Debug("override found new config value", "slot", c.Name(), "value", c.Get())
	} else {
		logger.Debug("using default config value", "slot", c.Name(), "value", c.Get())
	}
}
