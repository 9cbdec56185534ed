// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package schema

import (
	"fmt"

	"go.uber.org/zap"

	sproto "github.com/pk910/go-sproto"
	"github.com/pk910/go-sproto/sprotoutils"
)

// Decoder decodes messages of a schema into generic values.
//
// Decoded field values map to Go types as follows: integer to int64, boolean
// to bool, string to string, binary to []byte, objects to map[string]any, and
// arrays to []int64, []bool, []string, [][]byte or []map[string]any. Absent
// fields and tags unknown to the schema do not appear in the result.
type Decoder struct {
	schema   *Schema
	logger   *zap.Logger
	maxDepth int
}

func NewDecoder(schema *Schema, options ...Option) *Decoder {
	opts := &Options{
		MaxDepth: DefaultMaxDepth,
	}
	for _, option := range options {
		option(opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Decoder{
		schema:   schema,
		logger:   logger,
		maxDepth: opts.MaxDepth,
	}
}

// Decode decodes data as a message of the named type.
func (d *Decoder) Decode(typeName string, data []byte) (map[string]any, error) {
	typ, ok := d.schema.Type(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown type '%v'", typeName)
	}

	msg := d.newMessage(typ, 0)
	if err := sproto.Decode(data, msg); err != nil {
		return nil, err
	}
	return msg.result, nil
}

// message is the sproto.Message adapter for one schema object.
type message struct {
	decoder *Decoder
	typ     *Type
	depth   int
	result  map[string]any
}

func (d *Decoder) newMessage(typ *Type, depth int) *message {
	return &message{
		decoder: d,
		typ:     typ,
		depth:   depth,
		result:  map[string]any{},
	}
}

func (m *message) DecodeSproto(d *sproto.Decoder) error {
	if m.depth > m.decoder.maxDepth {
		return fmt.Errorf("%w: %v", sprotoutils.ErrMaxDepth, m.decoder.maxDepth)
	}

	for {
		tag, ok := d.NextTag()
		if !ok {
			return nil
		}

		field, known := m.typ.FieldByTag(tag)
		if !known {
			m.decoder.logger.Debug("skip unknown field", zap.String("type", m.typ.Name), zap.Int("tag", tag))
			if err := d.SkipField(); err != nil {
				return fmt.Errorf("%v: skip tag %v: %w", m.typ.Name, tag, err)
			}
			continue
		}

		value, err := m.readField(d, field)
		if err != nil {
			return fmt.Errorf("%v.%v: %w", m.typ.Name, field.Name, err)
		}
		m.result[field.Name] = value
	}
}

func (m *message) readField(d *sproto.Decoder, field *Field) (any, error) {
	if field.List {
		return m.readList(d, field)
	}

	switch field.Kind {
	case KindInteger:
		return d.ReadInteger()
	case KindBoolean:
		return d.ReadBoolean()
	case KindString:
		return d.ReadString()
	case KindBinary:
		raw, err := d.ReadBinary()
		if err != nil {
			return nil, err
		}
		return append([]byte{}, raw...), nil
	case KindObject:
		sub := m.decoder.newMessage(field.Ref, m.depth+1)
		if err := d.ReadObject(sub); err != nil {
			return nil, err
		}
		return sub.result, nil
	default:
		return nil, fmt.Errorf("%w: field kind %v", sprotoutils.ErrUnsupportedType, field.Kind)
	}
}

func (m *message) readList(d *sproto.Decoder, field *Field) (any, error) {
	switch field.Kind {
	case KindInteger:
		return d.ReadIntegerList()
	case KindBoolean:
		return d.ReadBooleanList()
	case KindString:
		return d.ReadStringList()
	case KindBinary:
		list, err := d.ReadBinaryList()
		if err != nil {
			return nil, err
		}
		for i, raw := range list {
			list[i] = append([]byte{}, raw...)
		}
		return list, nil
	case KindObject:
		subs := []*message{}
		_, err := d.ReadObjectList(func() sproto.Message {
			sub := m.decoder.newMessage(field.Ref, m.depth+1)
			subs = append(subs, sub)
			return sub
		})
		if err != nil {
			return nil, err
		}
		list := make([]map[string]any, len(subs))
		for i, sub := range subs {
			list[i] = sub.result
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: field kind %v", sprotoutils.ErrUnsupportedType, field.Kind)
	}
}
