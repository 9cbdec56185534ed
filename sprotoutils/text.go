// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeText converts raw string payload bytes to a Go string.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
