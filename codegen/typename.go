// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"fmt"
	"go/types"
	"path"
	"sort"

	"github.com/pk910/go-sproto/codegen/tmpl"
)

// TypePrinter renders go/types type expressions relative to the package the
// generated file belongs to, recording the imports they need.
type TypePrinter struct {
	CurrentPkg string
	imports    map[string]string
}

func NewTypePrinter(currentPkg string) *TypePrinter {
	return &TypePrinter{
		CurrentPkg: currentPkg,
		imports:    make(map[string]string),
	}
}

func (p *TypePrinter) Imports() map[string]string { return p.imports }

// AddImport records an import and returns the alias to qualify names with.
func (p *TypePrinter) AddImport(importPath, alias string) string {
	if existing := p.imports[importPath]; existing != "" {
		return existing
	}

	// ensure alias uniqueness
	base := alias
	i := 1
	for containsValue(p.imports, alias) {
		alias = fmt.Sprintf("%s%d", base, i)
		i++
	}

	p.imports[importPath] = alias
	return alias
}

// RemoveImport drops a recorded import.
func (p *TypePrinter) RemoveImport(importPath string) {
	delete(p.imports, importPath)
}

// TypeString returns the source expression for t.
func (p *TypePrinter) TypeString(t types.Type) string {
	return types.TypeString(t, p.qualify)
}

func (p *TypePrinter) qualify(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == p.CurrentPkg {
		return ""
	}
	return p.AddImport(pkg.Path(), pkg.Name())
}

// SortedImports returns the recorded imports ordered by path. Aliases
// matching the last path element are left implicit.
func (p *TypePrinter) SortedImports() []tmpl.TypeImport {
	imports := make([]tmpl.TypeImport, 0, len(p.imports))
	for importPath, alias := range p.imports {
		if alias == path.Base(importPath) {
			alias = ""
		}
		imports = append(imports, tmpl.TypeImport{
			Alias: alias,
			Path:  importPath,
		})
	}

	sort.Slice(imports, func(i, j int) bool {
		return imports[i].Path < imports[j].Path
	})
	return imports
}

func containsValue(m map[string]string, v string) bool {
	for _, vv := range m {
		if vv == v {
			return true
		}
	}
	return false
}
