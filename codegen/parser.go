// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"fmt"
	"go/types"
	"reflect"
	"sort"

	sproto "github.com/pk910/go-sproto"
)

// TypeInfo describes a struct type methods are generated for.
type TypeInfo struct {
	Named  *types.Named
	Fields []*FieldInfo // sorted by tag
}

// FieldInfo describes one tagged struct field and its wire mapping.
type FieldInfo struct {
	Name          string
	Tag           int
	MaxExpression string
	SprotoType    sproto.SprotoType

	Type    types.Type // declared field type
	IsPtr   bool       // pointer to a scalar or struct
	Value   types.Type // Type without the pointer
	Elem    types.Type // list element type, without the pointer for struct lists
	ElemPtr bool       // list of pointers to structs

	// integer width of the scalar or list element
	IntBits   int
	IntSigned bool

	// list can be converted to its wire slice type without copying elements
	Direct bool
}

// Parser analyzes go/types struct types using the sproto struct tags.
type Parser struct {
	// types that get generated methods in the same run
	generated map[*types.Named]bool
}

func NewParser() *Parser {
	return &Parser{
		generated: map[*types.Named]bool{},
	}
}

// AddGenerated marks a type as receiving generated methods, so other types may
// nest it without it implementing the message contract yet.
func (p *Parser) AddGenerated(named *types.Named) {
	p.generated[named] = true
}

// ParseType analyzes a named struct type.
func (p *Parser) ParseType(typ types.Type) (*TypeInfo, error) {
	named, ok := resolveNamed(typ)
	if !ok {
		return nil, fmt.Errorf("%v is not a named type", typ)
	}

	structType, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%v is not a struct type", named)
	}

	info := &TypeInfo{
		Named:  named,
		Fields: make([]*FieldInfo, 0, structType.NumFields()),
	}
	seenTags := map[int]string{}

	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		if !field.Exported() {
			continue
		}

		tags, ok, err := sproto.ParseFieldTags(reflect.StructTag(structType.Tag(i)))
		if err != nil {
			return nil, fmt.Errorf("%v.%v: %w", named.Obj().Name(), field.Name(), err)
		}
		if !ok {
			continue
		}

		if other, dup := seenTags[tags.Tag]; dup {
			return nil, fmt.Errorf("%v.%v: duplicate sproto tag %v (already used by '%v')", named.Obj().Name(), field.Name(), tags.Tag, other)
		}
		seenTags[tags.Tag] = field.Name()

		fieldInfo := &FieldInfo{
			Name:          field.Name(),
			Tag:           tags.Tag,
			MaxExpression: tags.MaxExpression,
			Type:          field.Type(),
		}
		if err := p.classifyField(fieldInfo); err != nil {
			return nil, fmt.Errorf("%v.%v: %w", named.Obj().Name(), field.Name(), err)
		}

		if fieldInfo.MaxExpression != "" && !fieldInfo.SprotoType.IsList() &&
			fieldInfo.SprotoType != sproto.SprotoStringType && fieldInfo.SprotoType != sproto.SprotoBinaryType {
			return nil, fmt.Errorf("%v.%v: sproto-max is only valid for lists, strings and binaries", named.Obj().Name(), field.Name())
		}

		info.Fields = append(info.Fields, fieldInfo)
	}

	sort.Slice(info.Fields, func(a, b int) bool {
		return info.Fields[a].Tag < info.Fields[b].Tag
	})

	return info, nil
}

func (p *Parser) classifyField(field *FieldInfo) error {
	typ := field.Type
	if ptr, ok := typ.(*types.Pointer); ok {
		field.IsPtr = true
		typ = ptr.Elem()
	}
	field.Value = typ

	switch t := typ.Underlying().(type) {
	case *types.Basic:
		switch {
		case t.Kind() == types.Bool:
			field.SprotoType = sproto.SprotoBooleanType
		case t.Kind() == types.String:
			field.SprotoType = sproto.SprotoStringType
		case isInteger(t):
			field.SprotoType = sproto.SprotoIntegerType
			field.IntBits, field.IntSigned = integerWidth(t)
		default:
			return fmt.Errorf("unsupported basic type %v", t)
		}

	case *types.Struct:
		named, ok := resolveNamed(typ)
		if !ok {
			return fmt.Errorf("anonymous struct fields are not supported")
		}
		if err := p.checkMessage(named); err != nil {
			return err
		}
		field.SprotoType = sproto.SprotoStructType

	case *types.Slice:
		if field.IsPtr {
			return fmt.Errorf("pointers to lists are not supported")
		}
		return p.classifyList(field, t.Elem())

	default:
		return fmt.Errorf("unsupported type %v", field.Type)
	}

	return nil
}

func (p *Parser) classifyList(field *FieldInfo, elem types.Type) error {
	field.Elem = elem

	if ptr, ok := elem.(*types.Pointer); ok {
		named, ok := resolveNamed(ptr.Elem())
		if !ok {
			return fmt.Errorf("unsupported list element %v", elem)
		}
		if _, ok := named.Underlying().(*types.Struct); !ok {
			return fmt.Errorf("unsupported list element %v", elem)
		}
		if err := p.checkMessage(named); err != nil {
			return err
		}
		field.SprotoType = sproto.SprotoStructListType
		field.Elem = ptr.Elem()
		field.ElemPtr = true
		return nil
	}

	switch t := elem.Underlying().(type) {
	case *types.Basic:
		switch {
		case t.Kind() == types.Uint8:
			if !types.Identical(elem, types.Typ[types.Uint8]) {
				return fmt.Errorf("unsupported list element %v", elem)
			}
			field.SprotoType = sproto.SprotoBinaryType
			field.Direct = true
		case t.Kind() == types.Bool:
			field.SprotoType = sproto.SprotoBooleanListType
			field.Direct = types.Identical(elem, types.Typ[types.Bool])
		case t.Kind() == types.String:
			field.SprotoType = sproto.SprotoStringListType
			field.Direct = types.Identical(elem, types.Typ[types.String])
		case isInteger(t):
			field.SprotoType = sproto.SprotoIntegerListType
			field.IntBits, field.IntSigned = integerWidth(t)
			field.Direct = types.Identical(elem, types.Typ[types.Int64])
		default:
			return fmt.Errorf("unsupported list element %v", elem)
		}

	case *types.Slice:
		inner, ok := t.Elem().Underlying().(*types.Basic)
		if !ok || inner.Kind() != types.Uint8 {
			return fmt.Errorf("nested list %v is not supported", field.Type)
		}
		field.SprotoType = sproto.SprotoBinaryListType
		field.Direct = types.Identical(elem, types.NewSlice(types.Typ[types.Byte]))

	case *types.Struct:
		named, ok := resolveNamed(elem)
		if !ok {
			return fmt.Errorf("anonymous struct list elements are not supported")
		}
		if err := p.checkMessage(named); err != nil {
			return err
		}
		field.SprotoType = sproto.SprotoStructListType

	default:
		return fmt.Errorf("unsupported list element %v", elem)
	}

	return nil
}

// checkMessage ensures a nested struct type can decode and encode itself.
func (p *Parser) checkMessage(named *types.Named) error {
	if p.generated[named] {
		return nil
	}
	if hasMethod(named, "DecodeSproto") && hasMethod(named, "EncodeSproto") {
		return nil
	}
	return fmt.Errorf("nested type %v has no sproto methods, add it to the generated types", named.Obj().Name())
}

func hasMethod(named *types.Named, name string) bool {
	methods := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < methods.Len(); i++ {
		if methods.At(i).Obj().Name() == name {
			return true
		}
	}
	return false
}

func resolveNamed(typ types.Type) (*types.Named, bool) {
	for {
		switch t := typ.(type) {
		case *types.Named:
			return t, true
		case *types.Alias:
			typ = types.Unalias(t)
		case *types.Pointer:
			typ = t.Elem()
		default:
			return nil, false
		}
	}
}

func isInteger(t *types.Basic) bool {
	return t.Info()&types.IsInteger != 0 && t.Kind() != types.Uintptr && t.Kind() != types.UntypedInt && t.Kind() != types.UntypedRune
}

func integerWidth(t *types.Basic) (bits int, signed bool) {
	switch t.Kind() {
	case types.Int8:
		return 8, true
	case types.Int16:
		return 16, true
	case types.Int32:
		return 32, true
	case types.Int, types.Int64:
		return 64, true
	case types.Uint8:
		return 8, false
	case types.Uint16:
		return 16, false
	case types.Uint32:
		return 32, false
	default:
		return 64, false
	}
}
