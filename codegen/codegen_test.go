// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sproto "github.com/pk910/go-sproto"
)

const commonSource = `package common

type Ref struct {
	ID uint32
}

func (r *Ref) DecodeSproto(d any) error { return nil }
func (r *Ref) EncodeSproto(e any) error { return nil }
`

const modelsSource = `package models

import "example.com/common"

type Age int32
type Tags []string

type Person struct {
	Name     string    ` + "`sproto:\"0\"`" + `
	Age      Age       ` + "`sproto:\"1\"`" + `
	Marital  *bool     ` + "`sproto:\"2\"`" + `
	Children []*Person ` + "`sproto:\"3\" sproto-max:\"MAX_CHILDREN\"`" + `
}

type Note struct {
	Title   string       ` + "`sproto:\"0\"`" + `
	Tags    Tags         ` + "`sproto:\"1\"`" + `
	Counts  []uint16     ` + "`sproto:\"2\"`" + `
	Blob    []byte       ` + "`sproto:\"3\" sproto-max:\"64\"`" + `
	Blobs   [][]byte     ` + "`sproto:\"4\"`" + `
	Author  Person       ` + "`sproto:\"5\"`" + `
	Editors []Person     ` + "`sproto:\"6\"`" + `
	Big     uint64       ` + "`sproto:\"7\"`" + `
	Skipped string       ` + "`sproto:\"-\"`" + `
	Flags   []bool       ` + "`sproto:\"9\"`" + `
	Owner   *common.Ref  ` + "`sproto:\"10\"`" + `
	Refs    []common.Ref ` + "`sproto:\"11\"`" + `
	Level   *int8        ` + "`sproto:\"12\"`" + `
	hidden  int
}

type Invalid struct {
	Values map[string]int ` + "`sproto:\"0\"`" + `
}

type Duplicate struct {
	A int ` + "`sproto:\"1\"`" + `
	B int ` + "`sproto:\"1\"`" + `
}

type Orphan struct {
	Nested Unlisted ` + "`sproto:\"0\"`" + `
}

type Unlisted struct {
	A int ` + "`sproto:\"0\"`" + `
}

type BadLimit struct {
	A int ` + "`sproto:\"0\" sproto-max:\"4\"`" + `
}
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func checkSource(t *testing.T, path string, src string, imp types.Importer) *types.Package {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filepath.Base(path)+".go", src, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: imp}
	pkg, err := conf.Check(path, fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	return pkg
}

func loadTestPackage(t *testing.T) *types.Package {
	common := checkSource(t, "example.com/common", commonSource, importer.Default())
	return checkSource(t, "example.com/models", modelsSource, importerFunc(func(path string) (*types.Package, error) {
		if path == "example.com/common" {
			return common, nil
		}
		return importer.Default().Import(path)
	}))
}

func lookupType(t *testing.T, pkg *types.Package, name string) types.Type {
	obj := pkg.Scope().Lookup(name)
	require.NotNil(t, obj, "type %v", name)
	return obj.Type()
}

func TestGenerateMethods(t *testing.T) {
	pkg := loadTestPackage(t)

	cg := NewCodeGenerator()
	require.NoError(t, cg.BuildFile("models_sproto.go", lookupType(t, pkg, "Person"), lookupType(t, pkg, "Note")))

	files, err := cg.GenerateToMap()
	require.NoError(t, err)
	code := files["models_sproto.go"]
	require.NotEmpty(t, code)

	_, err = parser.ParseFile(token.NewFileSet(), "models_sproto.go", code, parser.AllErrors)
	require.NoError(t, err, code)

	for _, snippet := range []string{
		"// Code generated by sproto-gen",
		"package models",
		`sproto "github.com/pk910/go-sproto"`,
		`"github.com/pk910/go-sproto/sprotoutils"`,
		`"example.com/common"`,
		"func (t *Person) DecodeSproto(d *sproto.Decoder) error {",
		"func (t *Person) EncodeSproto(e *sproto.Encoder) error {",
		"func (t *Note) DecodeSproto(d *sproto.Decoder) error {",
		"if !sprotoutils.FitsInteger(v, 32, true) {",
		"t.Age = Age(v)",
		"t.Marital = &val",
		"list, err := sproto.ReadObjects[Person](d)",
		`sprotoutils.ResolveSpecValueWithDefault(sproto.GetGlobalSproto(), "MAX_CHILDREN", math.MaxUint64)`,
		"t.Tags = Tags(list)",
		"e.WriteStringList(1, []string(t.Tags))",
		"if !sprotoutils.FitsInteger(v, 16, false) {",
		"t.Blob = append([]byte(nil), v...)",
		"if err := d.ReadObject(&t.Author); err != nil {",
		"t.Editors[i] = *v",
		"t.Big = uint64(v)",
		"t.Flags = list",
		"t.Owner = new(common.Ref)",
		"sproto.ReadObjects[common.Ref](d)",
		"e.WriteInteger(12, int64(*t.Level))",
		"sproto.WriteObjects(e, 3, t.Children)",
		"return t.Editors[i].EncodeSproto(child)",
	} {
		assert.Contains(t, code, snippet)
	}

	assert.NotContains(t, code, "Skipped")
	assert.NotContains(t, code, "hidden")
	assert.NotContains(t, code, "case 8:")
}

func TestGenerateOptions(t *testing.T) {
	pkg := loadTestPackage(t)

	cg := NewCodeGenerator(WithNoEncode())
	require.NoError(t, cg.BuildFile("person.go", lookupType(t, pkg, "Person")))

	files, err := cg.GenerateToMap()
	require.NoError(t, err)
	assert.Contains(t, files["person.go"], "DecodeSproto")
	assert.NotContains(t, files["person.go"], "EncodeSproto")

	cg = NewCodeGenerator(WithNoDecode())
	require.NoError(t, cg.BuildFile("person.go", lookupType(t, pkg, "Person")))

	files, err = cg.GenerateToMap()
	require.NoError(t, err)
	assert.NotContains(t, files["person.go"], "DecodeSproto")
	assert.Contains(t, files["person.go"], "EncodeSproto")
}

func TestGenerateErrors(t *testing.T) {
	pkg := loadTestPackage(t)

	tests := []struct {
		name string
		typ  string
		err  string
	}{
		{"UnsupportedType", "Invalid", "unsupported type"},
		{"DuplicateTag", "Duplicate", "duplicate sproto tag"},
		{"NestedWithoutMethods", "Orphan", "Unlisted has no sproto methods"},
		{"LimitOnInteger", "BadLimit", "sproto-max is only valid"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cg := NewCodeGenerator()
			require.NoError(t, cg.BuildFile("out.go", lookupType(t, pkg, test.typ)))
			_, err := cg.GenerateToMap()
			require.ErrorContains(t, err, test.err)
		})
	}

	t.Run("NestedInSameRun", func(t *testing.T) {
		cg := NewCodeGenerator()
		require.NoError(t, cg.BuildFile("out.go", lookupType(t, pkg, "Orphan"), lookupType(t, pkg, "Unlisted")))
		_, err := cg.GenerateToMap()
		require.NoError(t, err)
	})

	t.Run("NoRequests", func(t *testing.T) {
		_, err := NewCodeGenerator().GenerateToMap()
		require.Error(t, err)
	})

	t.Run("NotNamed", func(t *testing.T) {
		require.Error(t, NewCodeGenerator().BuildFile("out.go", types.Typ[types.Int]))
	})
}

func TestGenerateWritesFiles(t *testing.T) {
	pkg := loadTestPackage(t)
	output := filepath.Join(t.TempDir(), "nested", "person_sproto.go")

	cg := NewCodeGenerator()
	require.NoError(t, cg.BuildFile(output, lookupType(t, pkg, "Person")))
	require.NoError(t, cg.Generate())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "func (t *Person) DecodeSproto")
}

func TestParserFieldInfo(t *testing.T) {
	pkg := loadTestPackage(t)

	p := NewParser()
	p.AddGenerated(lookupType(t, pkg, "Person").(*types.Named))

	info, err := p.ParseType(lookupType(t, pkg, "Note"))
	require.NoError(t, err)

	kinds := map[string]sproto.SprotoType{}
	for _, field := range info.Fields {
		kinds[field.Name] = field.SprotoType
	}

	assert.Equal(t, map[string]sproto.SprotoType{
		"Title":   sproto.SprotoStringType,
		"Tags":    sproto.SprotoStringListType,
		"Counts":  sproto.SprotoIntegerListType,
		"Blob":    sproto.SprotoBinaryType,
		"Blobs":   sproto.SprotoBinaryListType,
		"Author":  sproto.SprotoStructType,
		"Editors": sproto.SprotoStructListType,
		"Big":     sproto.SprotoIntegerType,
		"Flags":   sproto.SprotoBooleanListType,
		"Owner":   sproto.SprotoStructType,
		"Refs":    sproto.SprotoStructListType,
		"Level":   sproto.SprotoIntegerType,
	}, kinds)

	for i := 1; i < len(info.Fields); i++ {
		assert.Less(t, info.Fields[i-1].Tag, info.Fields[i].Tag)
	}
}
