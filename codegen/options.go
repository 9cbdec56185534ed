// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

type CodeGenOption func(*CodeGenOptions)

type CodeGenOptions struct {
	NoDecode bool
	NoEncode bool
}

// WithNoDecode skips generating DecodeSproto methods.
func WithNoDecode() CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.NoDecode = true
	}
}

// WithNoEncode skips generating EncodeSproto methods.
func WithNoEncode() CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.NoEncode = true
	}
}
