// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

// Package codegen generates DecodeSproto and EncodeSproto methods for Go
// struct types annotated with `sproto` tags. Generated methods implement the
// sproto.Message and sproto.Marshaler contracts without reflection.
package codegen

import (
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/pk910/go-sproto/codegen/tmpl"
)

var runtimeImports = []string{"fmt", "math", "github.com/pk910/go-sproto", "github.com/pk910/go-sproto/sprotoutils"}

var runtimeImportNames = map[string]string{
	"fmt":                                   "fmt",
	"math":                                  "math",
	"github.com/pk910/go-sproto":            "sproto",
	"github.com/pk910/go-sproto/sprotoutils": "sprotoutils",
}

// GenerationRequest represents a request to generate methods for a set of types
type GenerationRequest struct {
	FileName string
	Types    []*types.Named
	Package  *types.Package
}

// CodeGenerator manages batch generation of sproto methods for multiple types
type CodeGenerator struct {
	requests []*GenerationRequest
	options  *CodeGenOptions
}

// NewCodeGenerator creates a new code generator instance
func NewCodeGenerator(opts ...CodeGenOption) *CodeGenerator {
	options := &CodeGenOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &CodeGenerator{
		requests: make([]*GenerationRequest, 0),
		options:  options,
	}
}

// BuildFile requests a generated file holding the methods of the given types.
// All types must be named struct types of the same package.
func (cg *CodeGenerator) BuildFile(fileName string, typeList ...types.Type) error {
	req := &GenerationRequest{
		FileName: fileName,
	}

	for _, t := range typeList {
		named, ok := resolveNamed(t)
		if !ok {
			return fmt.Errorf("type %v is not a named type", t)
		}
		pkg := named.Obj().Pkg()
		if pkg == nil {
			return fmt.Errorf("type %v has no package", named)
		}
		if req.Package == nil {
			req.Package = pkg
		} else if req.Package.Path() != pkg.Path() {
			return fmt.Errorf("type %v has different package path than %v. cannot combine types from different packages in a single file", named.Obj().Name(), req.Types[0].Obj().Name())
		}
		req.Types = append(req.Types, named)
	}

	if len(req.Types) == 0 {
		return fmt.Errorf("no types given for %v", fileName)
	}

	cg.requests = append(cg.requests, req)
	return nil
}

// GenerateToMap generates code for all requested types and returns it as a map of file name to code
func (cg *CodeGenerator) GenerateToMap() (map[string]string, error) {
	if len(cg.requests) == 0 {
		return nil, fmt.Errorf("no types requested for generation")
	}

	// register all types first, so they may reference each other
	parser := NewParser()
	for _, req := range cg.requests {
		for _, t := range req.Types {
			parser.AddGenerated(t)
		}
	}

	results := make(map[string]string)

	for _, req := range cg.requests {
		code, err := cg.generateFile(parser, req)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code for %v: %w", req.FileName, err)
		}
		results[req.FileName] = code
	}

	return results, nil
}

// Generate writes all requested files.
func (cg *CodeGenerator) Generate() error {
	results, err := cg.GenerateToMap()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	for fileName, code := range results {
		dir := filepath.Dir(fileName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := os.WriteFile(fileName, []byte(code), 0644); err != nil {
			return fmt.Errorf("failed to write code to file %s: %w", fileName, err)
		}
	}

	return nil
}

func (cg *CodeGenerator) generateFile(parser *Parser, req *GenerationRequest) (string, error) {
	// reserve the names referenced by generated statements before any field type claims them
	typePrinter := NewTypePrinter(req.Package.Path())
	for _, path := range runtimeImports {
		typePrinter.AddImport(path, runtimeImportNames[path])
	}

	codeBuilder := strings.Builder{}
	typeNames := make([]string, 0, len(req.Types))

	for _, t := range req.Types {
		info, err := parser.ParseType(t)
		if err != nil {
			return "", err
		}
		typeNames = append(typeNames, t.Obj().Name())

		if err := cg.generateCode(info, typePrinter, &codeBuilder); err != nil {
			return "", fmt.Errorf("failed to generate code for %s: %w", t.Obj().Name(), err)
		}
	}

	code := codeBuilder.String()
	for _, path := range runtimeImports {
		if !strings.Contains(code, runtimeImportNames[path]+".") {
			typePrinter.RemoveImport(path)
		}
	}

	mainCode := tmpl.Main{
		PackageName: req.Package.Name(),
		TypeNames:   strings.Join(typeNames, ", "),
		Version:     Version,
		Imports:     typePrinter.SortedImports(),
		Code:        code,
	}

	mainCodeTpl := GetTemplate("tmpl/main.tmpl")
	mainCodeBuilder := strings.Builder{}
	if err := mainCodeTpl.ExecuteTemplate(&mainCodeBuilder, "main", mainCode); err != nil {
		return "", err
	}

	formatted, err := imports.Process(req.FileName, []byte(mainCodeBuilder.String()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to format generated code: %w", err)
	}

	return string(formatted), nil
}

// generateCode generates the methods of a single type
func (cg *CodeGenerator) generateCode(info *TypeInfo, typePrinter *TypePrinter, codeBuilder *strings.Builder) error {
	typeName := info.Named.Obj().Name()

	if !cg.options.NoDecode {
		methods := tmpl.Methods{TypeName: typeName}
		for _, field := range info.Fields {
			code, err := generateDecodeField(field, typePrinter)
			if err != nil {
				return fmt.Errorf("field %v: %w", field.Name, err)
			}
			methods.Fields = append(methods.Fields, tmpl.Field{Name: field.Name, Tag: field.Tag, Code: code})
		}
		if err := GetTemplate("tmpl/decode.tmpl").ExecuteTemplate(codeBuilder, "decode", methods); err != nil {
			return err
		}
	}

	if !cg.options.NoEncode {
		methods := tmpl.Methods{TypeName: typeName}
		for _, field := range info.Fields {
			code, err := generateEncodeField(field, typePrinter)
			if err != nil {
				return fmt.Errorf("field %v: %w", field.Name, err)
			}
			methods.Fields = append(methods.Fields, tmpl.Field{Name: field.Name, Tag: field.Tag, Code: code})
		}
		if err := GetTemplate("tmpl/encode.tmpl").ExecuteTemplate(codeBuilder, "encode", methods); err != nil {
			return err
		}
	}

	return nil
}
