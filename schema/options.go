// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package schema

import "go.uber.org/zap"

// DefaultMaxDepth bounds object nesting when no WithMaxDepth option is given.
const DefaultMaxDepth = 64

type Option func(*Options)

type Options struct {
	Logger   *zap.Logger
	MaxDepth int
}

// WithLogger sets the logger used for decode tracing. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMaxDepth limits how deep nested objects may be decoded.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}
