// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package tmpl

type Main struct {
	PackageName string
	TypeNames   string
	Version     string
	Imports     []TypeImport
	Code        string
}

type TypeImport struct {
	Alias string
	Path  string
}

type Methods struct {
	TypeName string
	Fields   []Field
}

type Field struct {
	Name string
	Tag  int
	Code string
}
