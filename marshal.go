// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/pk910/go-sproto/sprotoutils"
)

// marshalMessage writes the tagged fields of sourceValue to e in tag order.
func (s *Sproto) marshalMessage(sourceType *TypeDescriptor, sourceValue reflect.Value, e *Encoder, idt int) error {
	useMarshalMethods := sourceType.HasMarshalMethods && (!s.NoMessageMethods || sourceType.SprotoType == SprotoMessageType)

	if s.Verbose {
		s.logger.Debug("encode message",
			zap.Int("depth", idt),
			zap.String("type", sourceType.Type.String()),
			zap.Bool("methods", useMarshalMethods))
	}

	if sourceType.IsPtr && sourceValue.IsNil() {
		return fmt.Errorf("cannot marshal nil %v", sourceType.Type)
	}

	if useMarshalMethods {
		if marshaler, ok := asMarshaler(sourceValue); ok {
			return marshaler.EncodeSproto(e)
		}
	}

	if sourceType.IsPtr {
		sourceValue = sourceValue.Elem()
	}

	if sourceType.ContainerDesc == nil {
		return fmt.Errorf("%w: %v", sprotoutils.ErrUnsupportedType, sourceType.Type)
	}

	for idx := range sourceType.ContainerDesc.Fields {
		field := &sourceType.ContainerDesc.Fields[idx]
		fieldValue := sourceValue.Field(field.Index)

		if field.Type.IsPtr && fieldValue.IsNil() {
			continue
		}

		if s.Verbose {
			s.logger.Debug("encode field",
				zap.Int("depth", idt),
				zap.Int("tag", field.Tag),
				zap.String("field", field.Name),
				zap.Stringer("sproto", field.Type.SprotoType))
		}

		if err := s.marshalField(field, fieldValue, e, idt+1); err != nil {
			return fmt.Errorf("field '%v' (tag %v): %w", field.Name, field.Tag, err)
		}
	}

	return nil
}

func asMarshaler(value reflect.Value) (Marshaler, bool) {
	if marshaler, ok := value.Interface().(Marshaler); ok {
		return marshaler, true
	}
	if value.Kind() != reflect.Ptr && value.CanAddr() {
		marshaler, ok := value.Addr().Interface().(Marshaler)
		return marshaler, ok
	}
	if value.Kind() != reflect.Ptr {
		ptr := reflect.New(value.Type())
		ptr.Elem().Set(value)
		marshaler, ok := ptr.Interface().(Marshaler)
		return marshaler, ok
	}
	return nil, false
}

func (s *Sproto) marshalField(field *FieldDescriptor, fieldValue reflect.Value, e *Encoder, idt int) error {
	fieldType := field.Type

	if fieldType.SprotoType == SprotoStructType || fieldType.SprotoType == SprotoMessageType {
		return e.WriteObjectFunc(field.Tag, func(child *Encoder) error {
			return s.marshalMessage(fieldType, fieldValue, child, idt)
		})
	}

	if fieldType.IsPtr {
		fieldValue = fieldValue.Elem()
	}

	switch fieldType.SprotoType {
	case SprotoIntegerType:
		v, err := getInteger(fieldValue)
		if err != nil {
			return err
		}
		return e.WriteInteger(field.Tag, v)

	case SprotoBooleanType:
		return e.WriteBoolean(field.Tag, fieldValue.Bool())

	case SprotoStringType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		return e.WriteString(field.Tag, fieldValue.String())

	case SprotoBinaryType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		return e.WriteBinary(field.Tag, fieldValue.Bytes())

	case SprotoIntegerListType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		list := make([]int64, fieldValue.Len())
		for i := range list {
			v, err := getInteger(fieldValue.Index(i))
			if err != nil {
				return fmt.Errorf("index %v: %w", i, err)
			}
			list[i] = v
		}
		return e.WriteIntegerList(field.Tag, list)

	case SprotoBooleanListType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		list := make([]bool, fieldValue.Len())
		for i := range list {
			list[i] = fieldValue.Index(i).Bool()
		}
		return e.WriteBooleanList(field.Tag, list)

	case SprotoStringListType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		list := make([]string, fieldValue.Len())
		for i := range list {
			list[i] = fieldValue.Index(i).String()
		}
		return e.WriteStringList(field.Tag, list)

	case SprotoBinaryListType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		list := make([][]byte, fieldValue.Len())
		for i := range list {
			list[i] = fieldValue.Index(i).Bytes()
		}
		return e.WriteBinaryList(field.Tag, list)

	case SprotoStructListType:
		if err := s.checkLimit(field, fieldValue.Len()); err != nil {
			return err
		}
		elemType := fieldType.ElemDesc
		return e.WriteObjectListFunc(field.Tag, fieldValue.Len(), func(i int, child *Encoder) error {
			return s.marshalMessage(elemType, fieldValue.Index(i), child, idt)
		})

	default:
		return fmt.Errorf("%w: %v", sprotoutils.ErrUnsupportedType, fieldType.Type)
	}
}
