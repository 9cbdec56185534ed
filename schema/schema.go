// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

// Package schema describes sproto message layouts at runtime and decodes
// messages into generic maps without generated or tagged Go types.
//
// Schemas are loaded from YAML or TOML files:
//
//	types:
//	  Person:
//	    - {name: name, tag: 0, type: string}
//	    - {name: age, tag: 1, type: integer}
//	    - {name: children, tag: 3, type: "*Person"}
package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format selects the file encoding of a schema.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFromPath picks the schema format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("unknown schema format for %v", path)
	}
}

// Kind is the wire representation of a schema field.
type Kind int

const (
	KindInteger Kind = iota
	KindBoolean
	KindString
	KindBinary
	KindObject
)

var builtinKinds = map[string]Kind{
	"integer": KindInteger,
	"boolean": KindBoolean,
	"string":  KindString,
	"binary":  KindBinary,
}

// Field is one tagged field of a schema type.
type Field struct {
	Name string `yaml:"name" toml:"name"`
	Tag  int    `yaml:"tag" toml:"tag"`
	Type string `yaml:"type" toml:"type"`

	// resolved by validation
	Kind Kind   `yaml:"-" toml:"-"`
	List bool   `yaml:"-" toml:"-"`
	Ref  *Type  `yaml:"-" toml:"-"`
	ref  string
}

// Type is a named message layout.
type Type struct {
	Name   string
	Fields []*Field // sorted by tag
	byTag  map[int]*Field
}

// FieldByTag returns the field declared for a wire tag.
func (t *Type) FieldByTag(tag int) (*Field, bool) {
	f, ok := t.byTag[tag]
	return f, ok
}

// Schema is a validated set of message types.
type Schema struct {
	types map[string]*Type
}

type schemaFile struct {
	Types map[string][]Field `yaml:"types" toml:"types"`
}

// Load reads and validates a schema file. The format follows the file extension.
func Load(path string) (*Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	schema, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return schema, nil
}

// Parse decodes and validates a schema document.
func Parse(data []byte, format Format) (*Schema, error) {
	file := &schemaFile{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(file); err != nil {
			return nil, fmt.Errorf("failed to parse yaml schema: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml schema: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown schema keys: %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %v", format)
	}

	return build(file.Types)
}

func build(defs map[string][]Field) (*Schema, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("schema declares no types")
	}

	s := &Schema{
		types: make(map[string]*Type, len(defs)),
	}

	for name, fields := range defs {
		if name == "" {
			return nil, fmt.Errorf("empty type name")
		}
		if _, builtin := builtinKinds[name]; builtin {
			return nil, fmt.Errorf("type name '%v' is reserved", name)
		}

		typ := &Type{
			Name:   name,
			Fields: make([]*Field, 0, len(fields)),
			byTag:  make(map[int]*Field, len(fields)),
		}
		names := map[string]bool{}

		for i := range fields {
			field := &fields[i]
			if field.Name == "" {
				return nil, fmt.Errorf("type '%v': field without name", name)
			}
			if names[field.Name] {
				return nil, fmt.Errorf("type '%v': duplicate field name '%v'", name, field.Name)
			}
			names[field.Name] = true

			if field.Tag < 0 || field.Tag > 0xffff {
				return nil, fmt.Errorf("type '%v': field '%v' has invalid tag %v", name, field.Name, field.Tag)
			}
			if other, dup := typ.byTag[field.Tag]; dup {
				return nil, fmt.Errorf("type '%v': duplicate tag %v ('%v' and '%v')", name, field.Tag, other.Name, field.Name)
			}
			typ.byTag[field.Tag] = field

			typeName := strings.TrimSpace(field.Type)
			if strings.HasPrefix(typeName, "*") {
				field.List = true
				typeName = strings.TrimSpace(typeName[1:])
			}
			if typeName == "" {
				return nil, fmt.Errorf("type '%v': field '%v' has no type", name, field.Name)
			}

			if kind, builtin := builtinKinds[typeName]; builtin {
				field.Kind = kind
			} else {
				field.Kind = KindObject
				field.ref = typeName
			}

			typ.Fields = append(typ.Fields, field)
		}

		sort.Slice(typ.Fields, func(a, b int) bool {
			return typ.Fields[a].Tag < typ.Fields[b].Tag
		})
		s.types[name] = typ
	}

	// resolve references once all types are known
	for _, typ := range s.types {
		for _, field := range typ.Fields {
			if field.Kind != KindObject {
				continue
			}
			ref, ok := s.types[field.ref]
			if !ok {
				return nil, fmt.Errorf("type '%v': field '%v' references unknown type '%v'", typ.Name, field.Name, field.ref)
			}
			field.Ref = ref
		}
	}

	return s, nil
}

// Type returns the named type.
func (s *Schema) Type(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// TypeNames returns all type names in sorted order.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
