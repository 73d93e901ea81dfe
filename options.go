// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import "go.uber.org/zap"

// Option configures a [Forest] or a [Sorted].
type Option func(*config)

type config struct {
	log *zap.Logger
}

func newConfig(opts []Option) config {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets a logger for debug events, e.g. the sorted variant
// falling back to a full resort. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}
