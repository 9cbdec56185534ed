// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import "go.uber.org/zap"

type SprotoOption func(*SprotoOptions)

type SprotoOptions struct {
	NoMessageMethods bool
	Verbose          bool
	Logger           *zap.Logger
}

// WithNoMessageMethods makes the reflection codec ignore DecodeSproto/EncodeSproto
// methods on struct types and walk their tagged fields instead.
func WithNoMessageMethods() SprotoOption {
	return func(opts *SprotoOptions) {
		opts.NoMessageMethods = true
	}
}

// WithVerbose enables per-field debug logging in the reflection codec.
func WithVerbose() SprotoOption {
	return func(opts *SprotoOptions) {
		opts.Verbose = true
	}
}

// WithLogger sets the logger used by the instance. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) SprotoOption {
	return func(opts *SprotoOptions) {
		opts.Logger = logger
	}
}
