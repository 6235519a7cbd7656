// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package schemes is the aggregation point that pulls every
// candidate scheme's init-time registry.Register call into the
// build: importing this package for its side effects is enough to
// populate registry with every scheme below.
package schemes

import (
	_ "github.com/luxfi/phs/schemes/antcrypt"
	_ "github.com/luxfi/phs/schemes/battcrypt"
	_ "github.com/luxfi/phs/schemes/earworm"
	_ "github.com/luxfi/phs/schemes/lyra2"
	_ "github.com/luxfi/phs/schemes/makwa"
	_ "github.com/luxfi/phs/schemes/omegacrypt"
	_ "github.com/luxfi/phs/schemes/parallel"
	_ "github.com/luxfi/phs/schemes/polypasshash"
	_ "github.com/luxfi/phs/schemes/pufferfish"
	_ "github.com/luxfi/phs/schemes/twocats"
	_ "github.com/luxfi/phs/schemes/yescrypt"
)
