// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"

	"github.com/pk910/go-sproto/sprotoutils"
)

// Decoder is a pull-style cursor over one encoded sproto message.
//
// The caller repeatedly asks NextTag for the next present field and then calls
// exactly one typed getter for it, chosen from the caller's own schema. The wire
// format carries no type information, so getters must be invoked in the same
// order the tags were returned, once per tag. Unknown tags must be consumed
// with SkipField.
//
// A Decoder is single-use and not safe for concurrent use. Independent decoders
// (including nested ones created by ReadObject) may share the same underlying
// buffer concurrently, since the buffer is never written.
//
// Example:
//
//	d, err := sproto.NewDecoder(data)
//	if err != nil {
//	    return err
//	}
//	for {
//	    tag, ok := d.NextTag()
//	    if !ok {
//	        break
//	    }
//	    switch tag {
//	    case 0:
//	        p.Name, err = d.ReadString()
//	    case 1:
//	        p.Age, err = d.ReadInteger()
//	    default:
//	        err = d.SkipField()
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
type Decoder struct {
	reader     sprotoutils.Reader
	fieldCount int
	dataPos    int // start of the data region
	fieldPos   int // next unread header word
	tag        int
	value      int
}

// NewDecoder creates a decoder over buf. The buffer is read, never copied or modified.
func NewDecoder(buf []byte) (*Decoder, error) {
	return NewDecoderFromReader(sprotoutils.NewBufferReader(buf))
}

// NewDecoderFromReader creates a decoder over the remaining view of reader,
// starting at the reader's current position.
func NewDecoderFromReader(reader sprotoutils.Reader) (*Decoder, error) {
	d := &Decoder{
		reader: reader,
		tag:    -1,
	}

	if err := d.init(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Decoder) init() error {
	fn, err := d.reader.ReadUint16()
	if err != nil {
		return fmt.Errorf("%w: missing field count", sprotoutils.ErrMalformedHeader)
	}

	d.fieldCount = int(fn)
	d.fieldPos = d.reader.GetPosition()
	d.dataPos = d.fieldPos + d.fieldCount*sprotoutils.SizeofField

	if d.reader.GetLength() < d.dataPos {
		return fmt.Errorf("%w: %v fields need %v bytes, got %v", sprotoutils.ErrMalformedHeader, d.fieldCount, d.dataPos, d.reader.GetLength())
	}

	return d.reader.Seek(d.dataPos)
}

// FieldCount returns the number of header words in the message.
func (d *Decoder) FieldCount() int {
	return d.fieldCount
}

// Offset returns the absolute offset of this message inside the shared buffer.
// Nested decoders report where their message starts in the outermost buffer.
func (d *Decoder) Offset() int {
	return d.reader.Offset()
}

// Tag returns the tag returned by the last successful NextTag call, or -1.
func (d *Decoder) Tag() int {
	return d.tag
}

// IsInline reports whether the current field's value is packed into its header word.
func (d *Decoder) IsInline() bool {
	return d.value >= 0
}

// NextTag advances to the next present field and returns its tag.
// ok is false once the header region is exhausted.
func (d *Decoder) NextTag() (tag int, ok bool) {
	pos := d.reader.GetPosition()
	// fieldPos stays within the header region validated by init
	if err := d.reader.Seek(d.fieldPos); err != nil {
		return -1, false
	}
	defer d.reader.Seek(pos) //nolint:errcheck // pos was valid before the scan

	for d.reader.GetPosition() < d.dataPos {
		d.tag++

		word, err := d.reader.ReadUint16()
		if err != nil {
			return -1, false // unreachable, the loop stops at dataPos
		}

		if word&1 == 0 {
			d.fieldPos = d.reader.GetPosition()
			d.value = int(word)/2 - 1
			return d.tag, true
		}

		d.tag += int(word) / 2
	}

	d.fieldPos = d.dataPos
	return -1, false
}

func (d *Decoder) readLength() (int, error) {
	sz, err := d.reader.ReadUint32()
	if err != nil {
		return 0, err
	}
	if int64(sz) > int64(d.reader.Remaining()) {
		return 0, fmt.Errorf("%w: length %v exceeds remaining %v bytes", sprotoutils.ErrUnexpectedEOF, sz, d.reader.Remaining())
	}
	return int(sz), nil
}

func (d *Decoder) readArraySize() (int, error) {
	if d.value >= 0 {
		return 0, fmt.Errorf("%w: tag %v is inline", sprotoutils.ErrInvalidArray, d.tag)
	}

	sz, err := d.readLength()
	if err != nil {
		return 0, err
	}
	if sz < 1 {
		return 0, fmt.Errorf("%w: %v", sprotoutils.ErrInvalidArraySize, sz)
	}

	return sz, nil
}

// ReadInteger returns the current field as a 64 bit signed integer.
// Out-of-line values are either 4 bytes (sign extended) or 8 bytes.
func (d *Decoder) ReadInteger() (int64, error) {
	if d.value >= 0 {
		return int64(d.value), nil
	}

	sz, err := d.reader.ReadUint32()
	if err != nil {
		return 0, err
	}

	switch sz {
	case sprotoutils.SizeofInt32:
		v, err := d.reader.ReadUint32()
		if err != nil {
			return 0, err
		}
		return sprotoutils.Expand64(v), nil
	case sprotoutils.SizeofInt64:
		return d.readInt64()
	default:
		return 0, fmt.Errorf("%w: %v", sprotoutils.ErrInvalidIntegerSize, sz)
	}
}

func (d *Decoder) readInt64() (int64, error) {
	low, err := d.reader.ReadUint32()
	if err != nil {
		return 0, err
	}
	high, err := d.reader.ReadUint32()
	if err != nil {
		return 0, err
	}
	return sprotoutils.Join64(low, high), nil
}

// ReadIntegerList returns the current field as a list of integers.
func (d *Decoder) ReadIntegerList() ([]int64, error) {
	sz, err := d.readArraySize()
	if err != nil {
		return nil, err
	}

	elemSize, err := d.reader.ReadUint8()
	if err != nil {
		return nil, err
	}
	sz--

	switch elemSize {
	case sprotoutils.SizeofInt32, sprotoutils.SizeofInt64:
	default:
		return nil, fmt.Errorf("%w: %v", sprotoutils.ErrInvalidElementSize, elemSize)
	}

	if sz%int(elemSize) != 0 {
		return nil, fmt.Errorf("%w: %v bytes for element size %v", sprotoutils.ErrInvalidArraySize, sz, elemSize)
	}

	count := sz / int(elemSize)
	list := make([]int64, count)
	for i := 0; i < count; i++ {
		if elemSize == sprotoutils.SizeofInt32 {
			v, err := d.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			list[i] = sprotoutils.Expand64(v)
		} else {
			list[i], err = d.readInt64()
			if err != nil {
				return nil, err
			}
		}
	}

	return list, nil
}

// ReadBoolean returns the current field as a boolean. Booleans are always inline.
func (d *Decoder) ReadBoolean() (bool, error) {
	if d.value < 0 {
		return false, fmt.Errorf("%w: tag %v is out-of-line", sprotoutils.ErrInvalidBoolean, d.tag)
	}
	return d.value != 0, nil
}

// ReadBooleanList returns the current field as a list of booleans, one byte each.
func (d *Decoder) ReadBooleanList() ([]bool, error) {
	sz, err := d.readArraySize()
	if err != nil {
		return nil, err
	}

	raw, err := d.reader.ReadBytes(sz)
	if err != nil {
		return nil, err
	}

	list := make([]bool, sz)
	for i, b := range raw {
		list[i] = b != 0
	}
	return list, nil
}

// ReadBinary returns the raw payload of the current field.
// The returned slice aliases the message buffer.
func (d *Decoder) ReadBinary() ([]byte, error) {
	if d.value >= 0 {
		return nil, fmt.Errorf("%w: tag %v is inline", sprotoutils.ErrInvalidString, d.tag)
	}

	sz, err := d.readLength()
	if err != nil {
		return nil, err
	}
	return d.reader.ReadBytes(sz)
}

// ReadString returns the current field decoded as UTF-8 text.
func (d *Decoder) ReadString() (string, error) {
	raw, err := d.ReadBinary()
	if err != nil {
		return "", err
	}
	return sprotoutils.DecodeText(raw), nil
}

// forEachElement walks the length-prefixed elements of a string or object array.
// Each element is passed as a zero-copy view of the message buffer.
func (d *Decoder) forEachElement(fn func(elem sprotoutils.Reader) error) error {
	sz, err := d.readArraySize()
	if err != nil {
		return err
	}

	for sz > 0 {
		if sz < sprotoutils.SizeofLength {
			return fmt.Errorf("%w: %v trailing bytes", sprotoutils.ErrInvalidArraySize, sz)
		}

		hsz, err := d.reader.ReadUint32()
		if err != nil {
			return err
		}
		sz -= sprotoutils.SizeofLength

		if int64(hsz) > int64(sz) {
			return fmt.Errorf("%w: element size %v exceeds remaining %v", sprotoutils.ErrInvalidArrayElement, hsz, sz)
		}

		elem, err := d.reader.View(int(hsz))
		if err != nil {
			return err
		}
		if err := fn(elem); err != nil {
			return err
		}

		sz -= int(hsz)
	}

	return nil
}

// ReadStringList returns the current field as a list of strings.
func (d *Decoder) ReadStringList() ([]string, error) {
	list := []string{}
	err := d.forEachElement(func(elem sprotoutils.Reader) error {
		list = append(list, sprotoutils.DecodeText(elem.Bytes()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReadBinaryList returns the current field as a list of raw payloads aliasing the message buffer.
func (d *Decoder) ReadBinaryList() ([][]byte, error) {
	list := [][]byte{}
	err := d.forEachElement(func(elem sprotoutils.Reader) error {
		list = append(list, elem.Bytes())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReadObject decodes the current field as a nested message into obj.
// The nested decoder works on a zero-copy view of this decoder's buffer.
func (d *Decoder) ReadObject(obj Message) error {
	if d.value >= 0 {
		return fmt.Errorf("%w: tag %v is inline", sprotoutils.ErrInvalidObject, d.tag)
	}

	sz, err := d.readLength()
	if err != nil {
		return err
	}

	view, err := d.reader.View(sz)
	if err != nil {
		return err
	}

	return decodeView(view, obj)
}

// ReadObjectList decodes the current field as a list of nested messages.
// newFn is called once per element to create the target instance.
func (d *Decoder) ReadObjectList(newFn func() Message) ([]Message, error) {
	list := []Message{}
	err := d.forEachElement(func(elem sprotoutils.Reader) error {
		obj := newFn()
		if err := decodeView(elem, obj); err != nil {
			return err
		}
		list = append(list, obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReadObjects is the typed form of ReadObjectList.
func ReadObjects[T any, PT MessagePtr[T]](d *Decoder) ([]PT, error) {
	list := []PT{}
	err := d.forEachElement(func(elem sprotoutils.Reader) error {
		obj := PT(new(T))
		if err := decodeView(elem, obj); err != nil {
			return err
		}
		list = append(list, obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SkipField consumes the current field without decoding it.
func (d *Decoder) SkipField() error {
	if d.value >= 0 {
		return nil
	}

	sz, err := d.reader.ReadUint32()
	if err != nil {
		return err
	}
	return d.reader.SkipBytes(int(sz))
}

func decodeView(view sprotoutils.Reader, obj Message) error {
	sub, err := NewDecoderFromReader(view)
	if err != nil {
		return err
	}
	return obj.DecodeSproto(sub)
}

// Decode decodes a complete message from buf into obj.
// obj is populated in place; on error it holds partial state and must be discarded.
func Decode(buf []byte, obj Message) error {
	return decodeView(sprotoutils.NewBufferReader(buf), obj)
}
