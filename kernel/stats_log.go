// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	log "github.com/luxfi/log"
	"go.uber.org/zap"
)

// LogStats is a Stats collector that forwards block-touch and
// phase-completion events to a structured logger. Block touches are
// logged at Debug (they fire once per arena row, which is too chatty
// for Info on any real m_cost) while phase completions are logged at
// Info.
type LogStats struct {
	log log.Logger
}

// NewLogStats wraps logger as a Stats collector. logger is not checked
// for nil: the returned collector is non-nil either way, and with a nil
// logger its methods panic on the first event.
func NewLogStats(logger log.Logger) *LogStats {
	return &LogStats{log: logger}
}

func (l *LogStats) BlockTouched(point SchedulePoint) {
	l.log.Debug("block touched",
		zap.Int("slice", point.Slice),
		zap.Int("lane", point.Lane),
		zap.Int("block", point.Block),
	)
}

func (l *LogStats) PhaseDone(phase string, blocks int) {
	l.log.Info("phase done", zap.String("phase", phase), zap.Int("blocks", blocks))
}
