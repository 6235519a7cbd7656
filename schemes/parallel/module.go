// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package parallel

import (
	"github.com/luxfi/phs/contract"
	"github.com/luxfi/phs/registry"
)

// module is the registry-facing handle this package registers at init
// time, keyed by scheme ID.
type module struct{}

// Module is the registry-facing singleton for this package.
var Module contract.Module = module{}

func (module) ID() string             { return SchemeID }
func (module) Scheme() contract.Scheme { return Scheme }

func init() {
	if err := registry.Register(Module); err != nil {
		panic(err)
	}
}
