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

// messageFunc adapts a closure to the Message contract.
type messageFunc func(d *Decoder) error

func (f messageFunc) DecodeSproto(d *Decoder) error {
	return f(d)
}

// unmarshalMessage populates targetValue from the fields of d.
//
// Pointer targets are allocated when nil. Types implementing Message decode
// themselves unless NoMessageMethods is set; structs walk the tags returned by
// the decoder and dispatch to the matching field, skipping unknown tags.
func (s *Sproto) unmarshalMessage(targetType *TypeDescriptor, targetValue reflect.Value, d *Decoder, idt int) error {
	if targetType.IsPtr {
		if targetValue.IsNil() {
			targetValue.Set(reflect.New(targetType.Type.Elem()))
		}
		targetValue = targetValue.Elem()
	}

	useMessageMethods := targetType.HasMessageMethods && (!s.NoMessageMethods || targetType.SprotoType == SprotoMessageType)

	if s.Verbose {
		s.logger.Debug("decode message",
			zap.Int("depth", idt),
			zap.String("type", targetType.Type.String()),
			zap.Int("fields", d.FieldCount()),
			zap.Bool("methods", useMessageMethods))
	}

	if useMessageMethods {
		msg, ok := targetValue.Addr().Interface().(Message)
		if ok {
			return msg.DecodeSproto(d)
		}
	}

	if targetType.ContainerDesc == nil {
		return fmt.Errorf("%w: %v", sprotoutils.ErrUnsupportedType, targetType.Type)
	}

	for {
		tag, ok := d.NextTag()
		if !ok {
			break
		}

		field, known := targetType.ContainerDesc.FieldByTag(tag)
		if !known {
			if s.Verbose {
				s.logger.Debug("skip unknown field", zap.Int("depth", idt), zap.Int("tag", tag), zap.Bool("inline", d.IsInline()))
			}
			if err := d.SkipField(); err != nil {
				return fmt.Errorf("skip tag %v: %w", tag, err)
			}
			continue
		}

		if s.Verbose {
			s.logger.Debug("decode field",
				zap.Int("depth", idt),
				zap.Int("tag", tag),
				zap.String("field", field.Name),
				zap.Stringer("sproto", field.Type.SprotoType))
		}

		if err := s.unmarshalField(field, targetValue.Field(field.Index), d, idt+1); err != nil {
			return fmt.Errorf("field '%v' (tag %v): %w", field.Name, tag, err)
		}
	}

	return nil
}

func (s *Sproto) unmarshalField(field *FieldDescriptor, fieldValue reflect.Value, d *Decoder, idt int) error {
	fieldType := field.Type

	if fieldType.SprotoType == SprotoStructType || fieldType.SprotoType == SprotoMessageType {
		return d.ReadObject(messageFunc(func(sub *Decoder) error {
			return s.unmarshalMessage(fieldType, fieldValue, sub, idt)
		}))
	}

	if fieldType.IsPtr {
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldType.Type.Elem()))
		}
		fieldValue = fieldValue.Elem()
	}

	switch fieldType.SprotoType {
	case SprotoIntegerType:
		v, err := d.ReadInteger()
		if err != nil {
			return err
		}
		return setInteger(fieldValue, v)

	case SprotoBooleanType:
		v, err := d.ReadBoolean()
		if err != nil {
			return err
		}
		fieldValue.SetBool(v)

	case SprotoStringType:
		v, err := d.ReadString()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(v)); err != nil {
			return err
		}
		fieldValue.SetString(v)

	case SprotoBinaryType:
		v, err := d.ReadBinary()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(v)); err != nil {
			return err
		}
		// the decoder returns views into the message buffer
		buf := reflect.MakeSlice(fieldValue.Type(), len(v), len(v))
		reflect.Copy(buf, reflect.ValueOf(v))
		fieldValue.Set(buf)

	case SprotoIntegerListType:
		list, err := d.ReadIntegerList()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(list)); err != nil {
			return err
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(list), len(list))
		for i, v := range list {
			if err := setInteger(slice.Index(i), v); err != nil {
				return fmt.Errorf("index %v: %w", i, err)
			}
		}
		fieldValue.Set(slice)

	case SprotoBooleanListType:
		list, err := d.ReadBooleanList()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(list)); err != nil {
			return err
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(list), len(list))
		for i, v := range list {
			slice.Index(i).SetBool(v)
		}
		fieldValue.Set(slice)

	case SprotoStringListType:
		list, err := d.ReadStringList()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(list)); err != nil {
			return err
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(list), len(list))
		for i, v := range list {
			slice.Index(i).SetString(v)
		}
		fieldValue.Set(slice)

	case SprotoBinaryListType:
		list, err := d.ReadBinaryList()
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(list)); err != nil {
			return err
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(list), len(list))
		for i, v := range list {
			elem := reflect.MakeSlice(slice.Type().Elem(), len(v), len(v))
			reflect.Copy(elem, reflect.ValueOf(v))
			slice.Index(i).Set(elem)
		}
		fieldValue.Set(slice)

	case SprotoStructListType:
		elemType := fieldType.ElemDesc
		elems := []reflect.Value{}
		_, err := d.ReadObjectList(func() Message {
			elem := reflect.New(elemType.Type).Elem()
			elems = append(elems, elem)
			return messageFunc(func(sub *Decoder) error {
				return s.unmarshalMessage(elemType, elem, sub, idt)
			})
		})
		if err != nil {
			return err
		}
		if err := s.checkLimit(field, len(elems)); err != nil {
			return err
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(elems), len(elems))
		for i, elem := range elems {
			slice.Index(i).Set(elem)
		}
		fieldValue.Set(slice)

	default:
		return fmt.Errorf("%w: %v", sprotoutils.ErrUnsupportedType, fieldType.Type)
	}

	return nil
}

// setInteger stores a decoded integer into an integer kind value.
// 64 bit unsigned targets take the raw two's complement bits, so they round
// trip values above math.MaxInt64.
func setInteger(target reflect.Value, v int64) error {
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !sprotoutils.FitsInteger(v, target.Type().Bits(), true) {
			return fmt.Errorf("%w: %v does not fit %v", sprotoutils.ErrValueOverflow, v, target.Type())
		}
		target.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !sprotoutils.FitsInteger(v, target.Type().Bits(), false) {
			return fmt.Errorf("%w: %v does not fit %v", sprotoutils.ErrValueOverflow, v, target.Type())
		}
		target.SetUint(uint64(v))
	default:
		return fmt.Errorf("%w: %v is not an integer", sprotoutils.ErrUnsupportedType, target.Type())
	}
	return nil
}

// getInteger reads an integer kind value as the int64 written to the wire.
// Unsigned values are reinterpreted, matching setInteger.
func getInteger(source reflect.Value) (int64, error) {
	switch source.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return source.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(source.Uint()), nil
	default:
		return 0, fmt.Errorf("%w: %v is not an integer", sprotoutils.ErrUnsupportedType, source.Type())
	}
}
