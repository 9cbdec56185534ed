// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

import "fmt"

var (
	ErrMalformedHeader     = fmt.Errorf("invalid decode header")
	ErrInvalidArraySize    = fmt.Errorf("invalid array size")
	ErrInvalidArrayElement = fmt.Errorf("invalid array element")
	ErrInvalidElementSize  = fmt.Errorf("invalid array element size")
	ErrInvalidIntegerSize  = fmt.Errorf("invalid integer size")
	ErrInvalidBoolean      = fmt.Errorf("invalid boolean value")
	ErrInvalidArray        = fmt.Errorf("invalid array value")
	ErrInvalidString       = fmt.Errorf("invalid string value")
	ErrInvalidObject       = fmt.Errorf("invalid object value")
	ErrUnexpectedEOF       = fmt.Errorf("unexpected end of sproto data")
	ErrTagOrder            = fmt.Errorf("tags must be strictly increasing")
	ErrTooManyFields       = fmt.Errorf("too many header fields")
	ErrValueOverflow       = fmt.Errorf("value overflows target type")
	ErrListTooBig          = fmt.Errorf("list length is higher than max value")
	ErrUnsupportedType     = fmt.Errorf("unsupported type")
	ErrMaxDepth            = fmt.Errorf("maximum nesting depth exceeded")
	ErrFrameTooBig         = fmt.Errorf("stream frame exceeds max size")
)
