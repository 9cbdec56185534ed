// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/pk910/go-sproto/sprotoutils"
)

var (
	messageType   = reflect.TypeOf((*Message)(nil)).Elem()
	marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()
	byteSliceType = reflect.TypeOf([]byte(nil))
)

// TypeCache manages cached type descriptors
type TypeCache struct {
	mutex       sync.RWMutex
	descriptors map[reflect.Type]*TypeDescriptor
}

// TypeDescriptor represents a cached descriptor for a type's sproto encoding/decoding
type TypeDescriptor struct {
	Type              reflect.Type         // Go type, possibly a pointer
	Kind              reflect.Kind         // Kind of the type after pointer resolution
	SprotoType        SprotoType           // Wire representation
	ContainerDesc     *ContainerDescriptor // For structs, shared between T and *T
	ElemDesc          *TypeDescriptor      // For lists of structs
	ElemKind          reflect.Kind         // For lists of scalars
	IsPtr             bool                 // Whether this is a pointer type
	HasMessageMethods bool                 // Whether *T implements Message
	HasMarshalMethods bool                 // Whether T or *T implements Marshaler
}

// ContainerDescriptor holds the tagged fields of a struct, sorted by tag
type ContainerDescriptor struct {
	Fields   []FieldDescriptor
	tagIndex map[int]int
}

// FieldByTag returns the field descriptor for a wire tag.
func (c *ContainerDescriptor) FieldByTag(tag int) (*FieldDescriptor, bool) {
	idx, ok := c.tagIndex[tag]
	if !ok {
		return nil, false
	}
	return &c.Fields[idx], true
}

// FieldDescriptor represents a cached descriptor for a struct field
type FieldDescriptor struct {
	Name          string
	Index         int // Index of the field in the struct
	Tag           int
	MaxExpression string
	Type          *TypeDescriptor
}

// NewTypeCache creates a new type cache
func NewTypeCache() *TypeCache {
	return &TypeCache{
		descriptors: make(map[reflect.Type]*TypeDescriptor),
	}
}

// GetTypeDescriptor returns a cached type descriptor for the given type, computing it if necessary.
//
// The method is thread-safe. Recursive types (a struct holding pointers or
// lists of itself) resolve to the same descriptor instance.
func (tc *TypeCache) GetTypeDescriptor(t reflect.Type) (*TypeDescriptor, error) {
	tc.mutex.RLock()
	if desc, exists := tc.descriptors[t]; exists {
		tc.mutex.RUnlock()
		return desc, nil
	}
	tc.mutex.RUnlock()

	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	// building stores partial descriptors for recursion, drop them on failure
	pending := map[reflect.Type]bool{}
	desc, err := tc.getTypeDescriptor(t, pending)
	if err != nil {
		for pt := range pending {
			delete(tc.descriptors, pt)
		}
		return nil, err
	}

	return desc, nil
}

func (tc *TypeCache) getTypeDescriptor(t reflect.Type, pending map[reflect.Type]bool) (*TypeDescriptor, error) {
	if desc, exists := tc.descriptors[t]; exists {
		return desc, nil
	}

	return tc.buildTypeDescriptor(t, pending)
}

// buildTypeDescriptor computes a type descriptor for the given type
func (tc *TypeCache) buildTypeDescriptor(t reflect.Type, pending map[reflect.Type]bool) (*TypeDescriptor, error) {
	desc := &TypeDescriptor{
		Type: t,
	}

	if t.Kind() == reflect.Ptr {
		desc.IsPtr = true
		t = t.Elem()
	}

	desc.Kind = t.Kind()
	desc.HasMessageMethods = reflect.PointerTo(t).Implements(messageType)
	desc.HasMarshalMethods = t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)

	// register before descending into fields, so self references find this descriptor
	tc.descriptors[desc.Type] = desc
	pending[desc.Type] = true

	switch desc.Kind {
	case reflect.Bool:
		desc.SprotoType = SprotoBooleanType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		desc.SprotoType = SprotoIntegerType
	case reflect.String:
		desc.SprotoType = SprotoStringType
	case reflect.Struct:
		desc.SprotoType = SprotoStructType
		if err := tc.buildContainerDescriptor(desc, t, pending); err != nil {
			return nil, err
		}
	case reflect.Slice:
		if err := tc.buildListDescriptor(desc, t, pending); err != nil {
			return nil, err
		}
	default:
		if desc.HasMessageMethods && desc.HasMarshalMethods {
			desc.SprotoType = SprotoMessageType
			break
		}
		return nil, fmt.Errorf("%w: %v", sprotoutils.ErrUnsupportedType, desc.Type)
	}

	return desc, nil
}

func (tc *TypeCache) buildListDescriptor(desc *TypeDescriptor, t reflect.Type, pending map[reflect.Type]bool) error {
	elemType := t.Elem()
	desc.ElemKind = elemType.Kind()

	if t == byteSliceType || (desc.ElemKind == reflect.Uint8 && elemType.PkgPath() == "") {
		desc.SprotoType = SprotoBinaryType
		return nil
	}

	switch desc.ElemKind {
	case reflect.Bool:
		desc.SprotoType = SprotoBooleanListType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		desc.SprotoType = SprotoIntegerListType
	case reflect.String:
		desc.SprotoType = SprotoStringListType
	case reflect.Slice:
		if elemType.Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("%w: nested list %v", sprotoutils.ErrUnsupportedType, desc.Type)
		}
		desc.SprotoType = SprotoBinaryListType
	case reflect.Struct, reflect.Ptr:
		elemDesc, err := tc.getTypeDescriptor(elemType, pending)
		if err != nil {
			return err
		}
		if elemDesc.SprotoType != SprotoStructType && elemDesc.SprotoType != SprotoMessageType {
			return fmt.Errorf("%w: list of %v", sprotoutils.ErrUnsupportedType, elemType)
		}
		desc.ElemDesc = elemDesc
		desc.SprotoType = SprotoStructListType
	default:
		return fmt.Errorf("%w: list of %v", sprotoutils.ErrUnsupportedType, elemType)
	}

	return nil
}

func (tc *TypeCache) buildContainerDescriptor(desc *TypeDescriptor, t reflect.Type, pending map[reflect.Type]bool) error {
	// T and *T share one container, so recursion through either resolves
	var sibling reflect.Type
	if desc.IsPtr {
		sibling = t
	} else {
		sibling = reflect.PointerTo(t)
	}
	if siblingDesc, exists := tc.descriptors[sibling]; exists && siblingDesc.ContainerDesc != nil {
		desc.ContainerDesc = siblingDesc.ContainerDesc
		return nil
	}

	container := &ContainerDescriptor{
		Fields:   make([]FieldDescriptor, 0, t.NumField()),
		tagIndex: map[int]int{},
	}
	desc.ContainerDesc = container

	seenTags := map[int]string{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tags, ok, err := ParseFieldTags(field.Tag)
		if err != nil {
			return fmt.Errorf("field '%v': %w", field.Name, err)
		}
		if !ok {
			continue
		}

		if other, dup := seenTags[tags.Tag]; dup {
			return fmt.Errorf("field '%v': duplicate sproto tag %v (already used by '%v')", field.Name, tags.Tag, other)
		}
		seenTags[tags.Tag] = field.Name

		fieldDesc, err := tc.getTypeDescriptor(field.Type, pending)
		if err != nil {
			return fmt.Errorf("field '%v': %w", field.Name, err)
		}

		if tags.MaxExpression != "" {
			switch fieldDesc.SprotoType {
			case SprotoStringType, SprotoBinaryType:
			default:
				if !fieldDesc.SprotoType.IsList() {
					return fmt.Errorf("field '%v': sproto-max is only valid for lists, strings and binaries", field.Name)
				}
			}
		}

		container.Fields = append(container.Fields, FieldDescriptor{
			Name:          field.Name,
			Index:         i,
			Tag:           tags.Tag,
			MaxExpression: tags.MaxExpression,
			Type:          fieldDesc,
		})
	}

	sort.Slice(container.Fields, func(a, b int) bool {
		return container.Fields[a].Tag < container.Fields[b].Tag
	})
	for idx, field := range container.Fields {
		container.tagIndex[field.Tag] = idx
	}

	return nil
}

// GetAllTypes returns a slice of all cached types
func (tc *TypeCache) GetAllTypes() []reflect.Type {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	types := make([]reflect.Type, 0, len(tc.descriptors))
	for t := range tc.descriptors {
		types = append(types, t)
	}
	return types
}

// RemoveType removes a specific type from the cache
func (tc *TypeCache) RemoveType(t reflect.Type) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	delete(tc.descriptors, t)
}

// RemoveAllTypes clears all cached type descriptors
func (tc *TypeCache) RemoveAllTypes() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.descriptors = make(map[reflect.Type]*TypeDescriptor)
}
