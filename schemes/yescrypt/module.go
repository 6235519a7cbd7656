// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package yescrypt

import (
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/registry"
)

type module struct{}

var Module contract.Module = module{}

func (module) ID() string             { return SchemeID }
func (module) Scheme() contract.Scheme { return Scheme }

func init() {
	if err := registry.Register(Module); err != nil {
		panic(err)
	}
}
