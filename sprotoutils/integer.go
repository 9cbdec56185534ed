// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

// Expand64 sign extends a 32 bit two's complement word to 64 bits.
func Expand64(v uint32) int64 {
	value := uint64(v)
	if value&0x80000000 != 0 {
		value |= 0xffffffff00000000
	}
	return int64(value)
}

// Join64 concatenates the low and high words of a 64 bit integer.
func Join64(low, high uint32) int64 {
	return int64(uint64(low) | uint64(high)<<32)
}

// FitsInt32 reports whether v survives a round trip through a sign extended 32 bit word.
func FitsInt32(v int64) bool {
	return v >= -0x80000000 && v <= 0x7fffffff
}

// FitsInteger reports whether v can be stored in an integer of the given bit
// width. 64 bit targets accept every value, unsigned ones as raw two's
// complement bits.
func FitsInteger(v int64, bits int, signed bool) bool {
	if bits >= 64 {
		return true
	}
	if signed {
		limit := int64(1) << (bits - 1)
		return v >= -limit && v < limit
	}
	return v >= 0 && v < int64(1)<<bits
}
