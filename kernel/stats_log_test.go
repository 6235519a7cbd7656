// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"testing"

	log "github.com/luxfi/log"
)

func TestLogStatsImplementsStats(t *testing.T) {
	var _ Stats = NewLogStats(log.NewTestLogger(log.InfoLevel))
}

func TestLogStatsDoesNotPanicOnEvents(t *testing.T) {
	s := NewLogStats(log.NewTestLogger(log.InfoLevel))
	s.BlockTouched(SchedulePoint{Slice: 1, Lane: 0, Block: 3})
	s.PhaseDone("setup", 128)
}
