// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

// Message is implemented by types that can populate themselves from a Decoder.
type Message interface {
	DecodeSproto(d *Decoder) error
}

// Marshaler is implemented by types that can write themselves to an Encoder.
type Marshaler interface {
	EncodeSproto(e *Encoder) error
}

// MessagePtr constrains a pointer type *T implementing Message, so generic
// helpers can allocate fresh instances of T.
type MessagePtr[T any] interface {
	*T
	Message
}
