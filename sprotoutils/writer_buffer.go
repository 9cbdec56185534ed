// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

import (
	"encoding/binary"
)

// BufferWriter appends little endian values to a growing byte slice.
type BufferWriter struct {
	buffer []byte
}

var _ Writer = (*BufferWriter)(nil)

// NewBufferWriter creates a new BufferWriter appending to the provided buffer.
func NewBufferWriter(buffer []byte) *BufferWriter {
	return &BufferWriter{
		buffer: buffer,
	}
}

func (w *BufferWriter) GetPosition() int {
	return len(w.buffer)
}

func (w *BufferWriter) GetBuffer() []byte {
	return w.buffer
}

func (w *BufferWriter) WriteUint8(v uint8) {
	w.buffer = append(w.buffer, v)
}

func (w *BufferWriter) WriteUint16(v uint16) {
	w.buffer = binary.LittleEndian.AppendUint16(w.buffer, v)
}

func (w *BufferWriter) WriteUint32(v uint32) {
	w.buffer = binary.LittleEndian.AppendUint32(w.buffer, v)
}

func (w *BufferWriter) WriteUint64(v uint64) {
	w.buffer = binary.LittleEndian.AppendUint64(w.buffer, v)
}

func (w *BufferWriter) WriteBytes(v []byte) {
	w.buffer = append(w.buffer, v...)
}

func (w *BufferWriter) WriteUint32At(pos int, v uint32) {
	binary.LittleEndian.PutUint32(w.buffer[pos:], v)
}
