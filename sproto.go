// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

// Package sproto implements the sproto binary object encoding.
//
// A sproto message is a list of tagged fields. Small integers and booleans are
// packed into a per-field 16 bit header word, while strings, binaries, nested
// messages, arrays and large integers live in a trailing data region. The wire
// format carries no type information: readers decode each tag with a getter
// matching their own schema.
//
// The package offers three layers:
//   - Decoder / Encoder: the pull-style wire cursor and its companion writer
//   - Message / Marshaler: the contract for hand-written or generated message types
//   - Sproto: a reflection codec for structs annotated with `sproto` tags
package sproto

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/pk910/go-sproto/sprotoutils"
)

// Sproto is a reflection based sproto encoder/decoder for tagged Go structs.
//
// The instance caches type descriptors and resolved limit expressions, so it
// should be reused across calls. It is safe for concurrent use.
//
// Example usage:
//
//	type Person struct {
//	    Name     string    `sproto:"0"`
//	    Age      int64     `sproto:"1"`
//	    Children []*Person `sproto:"3" sproto-max:"MAX_CHILDREN"`
//	}
//
//	sp := sproto.NewSproto(map[string]any{"MAX_CHILDREN": 16})
//	data, err := sp.Marshal(&person)
//	err = sp.Unmarshal(&decoded, data)
type Sproto struct {
	typeCache      *TypeCache
	specValues     map[string]any
	specValueCache map[string]*cachedSpecValue
	specMutex      sync.Mutex
	logger         *zap.Logger

	// NoMessageMethods makes the codec walk struct fields even when the type
	// implements Message or Marshaler.
	NoMessageMethods bool

	// Verbose enables per-field debug logging.
	Verbose bool
}

// NewSproto creates a new reflection codec instance.
//
// The specs map holds named values referenced by `sproto-max` limit
// expressions. It can be nil when no limits are used.
func NewSproto(specs map[string]any, options ...SprotoOption) *Sproto {
	if specs == nil {
		specs = map[string]any{}
	}

	opts := &SprotoOptions{}
	for _, option := range options {
		option(opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sproto{
		typeCache:        NewTypeCache(),
		specValues:       specs,
		specValueCache:   map[string]*cachedSpecValue{},
		logger:           logger,
		NoMessageMethods: opts.NoMessageMethods,
		Verbose:          opts.Verbose,
	}
}

// GetTypeCache returns the type cache for the Sproto instance.
func (s *Sproto) GetTypeCache() *TypeCache {
	return s.typeCache
}

// Marshal encodes source, a struct or pointer to struct, into a sproto message.
//
// Fields holding nil pointers are omitted, as are empty lists. All other
// tagged fields are written, including zero values.
func (s *Sproto) Marshal(source any) ([]byte, error) {
	sourceValue := reflect.ValueOf(source)
	if !sourceValue.IsValid() {
		return nil, fmt.Errorf("cannot marshal nil value")
	}

	sourceTypeDesc, err := s.typeCache.GetTypeDescriptor(sourceValue.Type())
	if err != nil {
		return nil, err
	}

	if sourceTypeDesc.IsPtr && sourceValue.IsNil() {
		return nil, fmt.Errorf("cannot marshal nil pointer")
	}

	e := NewEncoder()
	if err := s.marshalMessage(sourceTypeDesc, sourceValue, e, 0); err != nil {
		return nil, err
	}

	return e.Bytes()
}

// Unmarshal decodes a sproto message into target, which must be a non-nil
// pointer to a struct (or to a type implementing Message).
//
// The message is decoded into a fresh value that replaces *target only when
// decoding succeeds, so a failed call leaves target untouched. Tags without a
// matching struct field are skipped.
func (s *Sproto) Unmarshal(target any, data []byte) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return fmt.Errorf("unmarshal target must be a non-nil pointer, got %T", target)
	}

	targetTypeDesc, err := s.typeCache.GetTypeDescriptor(targetValue.Type())
	if err != nil {
		return err
	}

	d, err := NewDecoder(data)
	if err != nil {
		return err
	}

	staged := reflect.New(targetValue.Type().Elem())
	if err := s.unmarshalMessage(targetTypeDesc, staged, d, 0); err != nil {
		return err
	}

	targetValue.Elem().Set(staged.Elem())
	return nil
}

// ValidateType checks whether t can be encoded and decoded by the reflection codec.
func (s *Sproto) ValidateType(t reflect.Type) error {
	desc, err := s.typeCache.GetTypeDescriptor(t)
	if err != nil {
		return fmt.Errorf("type validation failed: %w", err)
	}

	switch desc.SprotoType {
	case SprotoStructType, SprotoMessageType:
		return nil
	default:
		return fmt.Errorf("type validation failed: %w: %v is not a message type", sprotoutils.ErrUnsupportedType, t)
	}
}

func (s *Sproto) resolveLimit(field *FieldDescriptor) (bool, uint64, error) {
	if field.MaxExpression == "" {
		return false, 0, nil
	}
	return s.ResolveSpecValue(field.MaxExpression)
}

func (s *Sproto) checkLimit(field *FieldDescriptor, length int) error {
	hasLimit, limit, err := s.resolveLimit(field)
	if err != nil {
		return err
	}
	if hasLimit && uint64(length) > limit {
		return fmt.Errorf("%w: field '%v' has %v entries, max %v", sprotoutils.ErrListTooBig, field.Name, length, limit)
	}
	return nil
}
