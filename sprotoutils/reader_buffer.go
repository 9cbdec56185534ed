// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

import (
	"encoding/binary"
)

// BufferReader reads from a window of a shared byte slice.
// Sub-readers created with View share the same storage and only carry
// their own offset, length and position.
type BufferReader struct {
	buffer   []byte
	offset   int
	length   int
	position int
}

var _ Reader = (*BufferReader)(nil)

func NewBufferReader(buffer []byte) *BufferReader {
	return &BufferReader{
		buffer: buffer,
		offset: 0,
		length: len(buffer),
	}
}

func (r *BufferReader) GetPosition() int {
	return r.position
}

func (r *BufferReader) GetLength() int {
	return r.length
}

func (r *BufferReader) Remaining() int {
	return r.length - r.position
}

// Offset returns the absolute offset of the view inside the shared buffer.
func (r *BufferReader) Offset() int {
	return r.offset
}

func (r *BufferReader) Seek(pos int) error {
	if pos < 0 || pos > r.length {
		return ErrUnexpectedEOF
	}
	r.position = pos
	return nil
}

func (r *BufferReader) ReadUint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrUnexpectedEOF
	}
	val := r.buffer[r.offset+r.position]
	r.position++
	return val, nil
}

func (r *BufferReader) ReadUint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrUnexpectedEOF
	}
	val := binary.LittleEndian.Uint16(r.buffer[r.offset+r.position:])
	r.position += 2
	return val, nil
}

func (r *BufferReader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	val := binary.LittleEndian.Uint32(r.buffer[r.offset+r.position:])
	r.position += 4
	return val, nil
}

func (r *BufferReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	start := r.offset + r.position
	r.position += n
	return r.buffer[start : start+n : start+n], nil
}

func (r *BufferReader) SkipBytes(n int) error {
	if n < 0 || r.Remaining() < n {
		return ErrUnexpectedEOF
	}
	r.position += n
	return nil
}

func (r *BufferReader) View(n int) (Reader, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	view := &BufferReader{
		buffer: r.buffer,
		offset: r.offset + r.position,
		length: n,
	}
	r.position += n
	return view, nil
}

func (r *BufferReader) Bytes() []byte {
	return r.buffer[r.offset : r.offset+r.length : r.offset+r.length]
}
