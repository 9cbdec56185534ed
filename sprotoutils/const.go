// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

const (
	SizeofHeader = 2 // u16 field count
	SizeofField  = 2 // u16 header word per field
	SizeofLength = 4 // u32 length prefix of out-of-line payloads

	SizeofInt32 = 4
	SizeofInt64 = 8

	// MaxInlineValue is the largest value that fits into a header word as (v+1)*2.
	MaxInlineValue = 0x7ffe
	MaxFieldCount  = 0xffff
	// MaxSkipRun is the number of absent tags a single odd header word can cover.
	MaxSkipRun = 0x8000
)
