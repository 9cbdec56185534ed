// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import "github.com/pk910/go-sproto/sprotoutils"

// Error kinds returned by the decoder, encoder and reflection codec.
// Match them with errors.Is; the wrapped message carries the offending detail.
var (
	ErrMalformedHeader     = sprotoutils.ErrMalformedHeader
	ErrInvalidArraySize    = sprotoutils.ErrInvalidArraySize
	ErrInvalidArrayElement = sprotoutils.ErrInvalidArrayElement
	ErrInvalidElementSize  = sprotoutils.ErrInvalidElementSize
	ErrInvalidIntegerSize  = sprotoutils.ErrInvalidIntegerSize
	ErrInvalidBoolean      = sprotoutils.ErrInvalidBoolean
	ErrInvalidArray        = sprotoutils.ErrInvalidArray
	ErrInvalidString       = sprotoutils.ErrInvalidString
	ErrInvalidObject       = sprotoutils.ErrInvalidObject
	ErrUnexpectedEOF       = sprotoutils.ErrUnexpectedEOF
	ErrTagOrder            = sprotoutils.ErrTagOrder
	ErrTooManyFields       = sprotoutils.ErrTooManyFields
	ErrValueOverflow       = sprotoutils.ErrValueOverflow
	ErrListTooBig          = sprotoutils.ErrListTooBig
	ErrUnsupportedType     = sprotoutils.ErrUnsupportedType
	ErrFrameTooBig         = sprotoutils.ErrFrameTooBig
)
