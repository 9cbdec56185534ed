// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"

	"github.com/pk910/go-sproto/sprotoutils"
)

// Encoder builds one sproto message. Fields must be written in strictly
// increasing tag order; tags left out between two writes are encoded as
// absent runs in the header.
//
// Empty lists are not written at all, since a zero-size array is not valid
// on the wire. Decoders see such fields as absent.
type Encoder struct {
	header  *sprotoutils.BufferWriter
	data    *sprotoutils.BufferWriter
	fields  int
	lastTag int
}

// NewEncoder creates an empty message encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		header:  sprotoutils.NewBufferWriter(make([]byte, 0, 32)),
		data:    sprotoutils.NewBufferWriter(make([]byte, 0, 128)),
		lastTag: -1,
	}
}

// Encode serializes a single message.
func Encode(obj Marshaler) ([]byte, error) {
	e := NewEncoder()
	if err := obj.EncodeSproto(e); err != nil {
		return nil, err
	}
	return e.Bytes()
}

func (e *Encoder) pushWord(word uint16) error {
	if e.fields >= sprotoutils.MaxFieldCount {
		return sprotoutils.ErrTooManyFields
	}
	e.header.WriteUint16(word)
	e.fields++
	return nil
}

// beginField writes the skip words for absent tags and the header word of tag.
func (e *Encoder) beginField(tag int, word uint16) error {
	if tag <= e.lastTag {
		return fmt.Errorf("%w: tag %v after %v", sprotoutils.ErrTagOrder, tag, e.lastTag)
	}

	skip := tag - e.lastTag - 1
	for skip > 0 {
		run := skip
		if run > sprotoutils.MaxSkipRun {
			run = sprotoutils.MaxSkipRun
		}
		if err := e.pushWord(uint16(2*(run-1) + 1)); err != nil {
			return err
		}
		skip -= run
	}

	if err := e.pushWord(word); err != nil {
		return err
	}
	e.lastTag = tag
	return nil
}

func (e *Encoder) writeLength(n int) {
	e.data.WriteUint32(uint32(n))
}

// WriteInteger writes an integer field, inline when 0 <= v <= MaxInlineValue.
func (e *Encoder) WriteInteger(tag int, v int64) error {
	if v >= 0 && v <= sprotoutils.MaxInlineValue {
		return e.beginField(tag, uint16((v+1)*2))
	}

	if err := e.beginField(tag, 0); err != nil {
		return err
	}

	if sprotoutils.FitsInt32(v) {
		e.writeLength(sprotoutils.SizeofInt32)
		e.data.WriteUint32(uint32(v))
	} else {
		e.writeLength(sprotoutils.SizeofInt64)
		e.data.WriteUint64(uint64(v))
	}
	return nil
}

// WriteBoolean writes an inline boolean field.
func (e *Encoder) WriteBoolean(tag int, v bool) error {
	if v {
		return e.beginField(tag, 4)
	}
	return e.beginField(tag, 2)
}

// WriteBinary writes a raw payload field.
func (e *Encoder) WriteBinary(tag int, v []byte) error {
	if err := e.beginField(tag, 0); err != nil {
		return err
	}
	e.writeLength(len(v))
	e.data.WriteBytes(v)
	return nil
}

// WriteString writes a UTF-8 string field.
func (e *Encoder) WriteString(tag int, v string) error {
	return e.WriteBinary(tag, []byte(v))
}

// WriteObjectFunc writes a nested message produced by fn.
func (e *Encoder) WriteObjectFunc(tag int, fn func(child *Encoder) error) error {
	child := NewEncoder()
	if err := fn(child); err != nil {
		return err
	}
	payload, err := child.Bytes()
	if err != nil {
		return err
	}
	return e.WriteBinary(tag, payload)
}

// WriteObject writes a nested message.
func (e *Encoder) WriteObject(tag int, obj Marshaler) error {
	return e.WriteObjectFunc(tag, obj.EncodeSproto)
}

// WriteIntegerList writes a list of integers using 4 byte elements unless a value needs 8.
func (e *Encoder) WriteIntegerList(tag int, list []int64) error {
	if len(list) == 0 {
		return nil
	}

	elemSize := sprotoutils.SizeofInt32
	for _, v := range list {
		if !sprotoutils.FitsInt32(v) {
			elemSize = sprotoutils.SizeofInt64
			break
		}
	}

	if err := e.beginField(tag, 0); err != nil {
		return err
	}

	e.writeLength(1 + len(list)*elemSize)
	e.data.WriteUint8(uint8(elemSize))
	for _, v := range list {
		if elemSize == sprotoutils.SizeofInt32 {
			e.data.WriteUint32(uint32(v))
		} else {
			e.data.WriteUint64(uint64(v))
		}
	}
	return nil
}

// WriteBooleanList writes a list of booleans, one byte per element.
func (e *Encoder) WriteBooleanList(tag int, list []bool) error {
	if len(list) == 0 {
		return nil
	}
	if err := e.beginField(tag, 0); err != nil {
		return err
	}

	e.writeLength(len(list))
	for _, v := range list {
		if v {
			e.data.WriteUint8(1)
		} else {
			e.data.WriteUint8(0)
		}
	}
	return nil
}

// writeElements writes count length-prefixed elements, back-patching the total size.
func (e *Encoder) writeElements(tag int, count int, fn func(i int) ([]byte, error)) error {
	if count == 0 {
		return nil
	}
	if err := e.beginField(tag, 0); err != nil {
		return err
	}

	sizePos := e.data.GetPosition()
	e.writeLength(0)

	for i := 0; i < count; i++ {
		elem, err := fn(i)
		if err != nil {
			return err
		}
		e.writeLength(len(elem))
		e.data.WriteBytes(elem)
	}

	e.data.WriteUint32At(sizePos, uint32(e.data.GetPosition()-sizePos-sprotoutils.SizeofLength))
	return nil
}

// WriteBinaryList writes a list of raw payloads.
func (e *Encoder) WriteBinaryList(tag int, list [][]byte) error {
	return e.writeElements(tag, len(list), func(i int) ([]byte, error) {
		return list[i], nil
	})
}

// WriteStringList writes a list of strings.
func (e *Encoder) WriteStringList(tag int, list []string) error {
	return e.writeElements(tag, len(list), func(i int) ([]byte, error) {
		return []byte(list[i]), nil
	})
}

// WriteObjectListFunc writes count nested messages, each produced by fn.
func (e *Encoder) WriteObjectListFunc(tag int, count int, fn func(i int, child *Encoder) error) error {
	return e.writeElements(tag, count, func(i int) ([]byte, error) {
		child := NewEncoder()
		if err := fn(i, child); err != nil {
			return nil, err
		}
		return child.Bytes()
	})
}

// WriteObjectList writes a list of nested messages.
func (e *Encoder) WriteObjectList(tag int, list []Marshaler) error {
	return e.WriteObjectListFunc(tag, len(list), func(i int, child *Encoder) error {
		return list[i].EncodeSproto(child)
	})
}

// WriteObjects is the typed form of WriteObjectList.
func WriteObjects[T Marshaler](e *Encoder, tag int, list []T) error {
	return e.WriteObjectListFunc(tag, len(list), func(i int, child *Encoder) error {
		return list[i].EncodeSproto(child)
	})
}

// Bytes assembles the message: field count, header words, then the data region.
func (e *Encoder) Bytes() ([]byte, error) {
	header := e.header.GetBuffer()
	data := e.data.GetBuffer()

	out := sprotoutils.NewBufferWriter(make([]byte, 0, sprotoutils.SizeofHeader+len(header)+len(data)))
	out.WriteUint16(uint16(e.fields))
	out.WriteBytes(header)
	out.WriteBytes(data)
	return out.GetBuffer(), nil
}
