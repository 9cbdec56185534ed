// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package schema_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pk910/go-sproto/schema"
	"github.com/pk910/go-sproto/sprotoutils"
)

type testVector struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Hex      string         `yaml:"hex"`
	Expected map[string]any `yaml:"expected"`
}

func loadVectors(t *testing.T) []testVector {
	data, err := os.ReadFile(filepath.Join("testdata", "vectors.yaml"))
	require.NoError(t, err)

	vectors := []testVector{}
	require.NoError(t, yaml.Unmarshal(data, &vectors))
	require.NotEmpty(t, vectors)
	return vectors
}

func decodeHex(t *testing.T, s string) []byte {
	data, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err)
	return data
}

func TestLoadFormats(t *testing.T) {
	fromYAML, err := schema.Load(filepath.Join("testdata", "addressbook.yaml"))
	require.NoError(t, err)
	fromTOML, err := schema.Load(filepath.Join("testdata", "addressbook.toml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Note", "Person"}, fromYAML.TypeNames())
	assert.Equal(t, fromYAML.TypeNames(), fromTOML.TypeNames())

	for _, name := range fromYAML.TypeNames() {
		a, _ := fromYAML.Type(name)
		b, _ := fromTOML.Type(name)
		require.Len(t, b.Fields, len(a.Fields), "type %v", name)
		for i := range a.Fields {
			assert.Equal(t, a.Fields[i].Name, b.Fields[i].Name)
			assert.Equal(t, a.Fields[i].Tag, b.Fields[i].Tag)
			assert.Equal(t, a.Fields[i].Kind, b.Fields[i].Kind)
			assert.Equal(t, a.Fields[i].List, b.Fields[i].List)
		}
	}

	person, ok := fromYAML.Type("Person")
	require.True(t, ok)
	children, ok := person.FieldByTag(3)
	require.True(t, ok)
	assert.True(t, children.List)
	assert.Equal(t, schema.KindObject, children.Kind)
	assert.Same(t, person, children.Ref)

	_, err = schema.Load("addressbook.json")
	require.Error(t, err)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		err    string
	}{
		{"Empty", "types: {}", "no types"},
		{"UnknownKey", "types: {A: [{name: a, tag: 0, type: integer, max: 3}]}", "max"},
		{"MissingName", "types: {A: [{tag: 0, type: integer}]}", "without name"},
		{"DuplicateName", "types: {A: [{name: a, tag: 0, type: integer}, {name: a, tag: 1, type: integer}]}", "duplicate field name"},
		{"DuplicateTag", "types: {A: [{name: a, tag: 0, type: integer}, {name: b, tag: 0, type: string}]}", "duplicate tag"},
		{"NegativeTag", "types: {A: [{name: a, tag: -1, type: integer}]}", "invalid tag"},
		{"MissingType", "types: {A: [{name: a, tag: 0}]}", "no type"},
		{"UnknownRef", "types: {A: [{name: a, tag: 0, type: \"*B\"}]}", "unknown type 'B'"},
		{"ReservedName", "types: {string: [{name: a, tag: 0, type: integer}]}", "reserved"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(test.schema), schema.FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}

	_, err := schema.Parse([]byte("[[types.A]]\nname = \"a\"\ntag = 0\ntype = \"integer\"\nsize = 1\n"), schema.FormatTOML)
	require.ErrorContains(t, err, "unknown schema keys")
}

func TestDecodeVectors(t *testing.T) {
	for _, file := range []string{"addressbook.yaml", "addressbook.toml"} {
		s, err := schema.Load(filepath.Join("testdata", file))
		require.NoError(t, err)
		dec := schema.NewDecoder(s)

		for _, vector := range loadVectors(t) {
			t.Run(file+"/"+vector.Name, func(t *testing.T) {
				result, err := dec.Decode(vector.Type, decodeHex(t, vector.Hex))
				require.NoError(t, err)

				actual, err := yaml.Marshal(result)
				require.NoError(t, err)
				expected, err := yaml.Marshal(vector.Expected)
				require.NoError(t, err)
				require.YAMLEq(t, string(expected), string(actual))
			})
		}
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	s, err := schema.Load(filepath.Join("testdata", "addressbook.yaml"))
	require.NoError(t, err)

	var bob []byte
	for _, vector := range loadVectors(t) {
		if vector.Name == "bob_with_children" {
			bob = decodeHex(t, vector.Hex)
		}
	}
	require.NotNil(t, bob)

	_, err = schema.NewDecoder(s, schema.WithMaxDepth(0)).Decode("Person", bob)
	require.ErrorIs(t, err, sprotoutils.ErrMaxDepth)

	result, err := schema.NewDecoder(s, schema.WithMaxDepth(1)).Decode("Person", bob)
	require.NoError(t, err)
	assert.Len(t, result["children"], 2)
}

func TestDecodeErrors(t *testing.T) {
	s, err := schema.Load(filepath.Join("testdata", "addressbook.yaml"))
	require.NoError(t, err)
	dec := schema.NewDecoder(s)

	_, err = dec.Decode("Missing", decodeHex(t, "0000"))
	require.ErrorContains(t, err, "unknown type")

	_, err = dec.Decode("Person", decodeHex(t, "0300"))
	require.ErrorIs(t, err, sprotoutils.ErrMalformedHeader)

	// age declared as integer but encoded with a 2 byte payload
	_, err = dec.Decode("Person", decodeHex(t, "0200 0100 0000 02000000 0100"))
	require.ErrorIs(t, err, sprotoutils.ErrInvalidIntegerSize)
	require.ErrorContains(t, err, "Person.age")
}
