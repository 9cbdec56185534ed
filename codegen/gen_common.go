// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"
)

// codeWriter collects the statements generated for a single field.
type codeWriter struct {
	strings.Builder
	field *FieldInfo
}

func newCodeWriter(field *FieldInfo) *codeWriter {
	return &codeWriter{field: field}
}

func (w *codeWriter) line(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

// fieldRef is the error prefix naming the field.
func (w *codeWriter) fieldRef() string {
	return strconv.Quote(fmt.Sprintf("field '%v' (tag %v): %%w", w.field.Name, w.field.Tag))
}

func (w *codeWriter) returnErr(errExpr string) {
	w.line("return fmt.Errorf(%v, %v)", w.fieldRef(), errExpr)
}

func (w *codeWriter) checkErr() {
	w.line("if err != nil {")
	w.returnErr("err")
	w.line("}")
}

// checkLimit emits the sproto-max check for a length expression.
func (w *codeWriter) checkLimit(lenExpr string) {
	if w.field.MaxExpression == "" {
		return
	}
	w.line("if limit, err := sprotoutils.ResolveSpecValueWithDefault(sproto.GetGlobalSproto(), %v, math.MaxUint64); err != nil {", strconv.Quote(w.field.MaxExpression))
	w.returnErr("err")
	w.line("} else if uint64(%v) > limit {", lenExpr)
	w.returnErr("sprotoutils.ErrListTooBig")
	w.line("}")
}

// checkRange emits the integer overflow check for narrow integer targets.
func (w *codeWriter) checkRange(valueExpr string) {
	if w.field.IntBits >= 64 {
		return
	}
	w.line("if !sprotoutils.FitsInteger(%v, %v, %v) {", valueExpr, w.field.IntBits, w.field.IntSigned)
	w.returnErr("sprotoutils.ErrValueOverflow")
	w.line("}")
}

func (w *codeWriter) String() string {
	return strings.TrimRight(w.Builder.String(), "\n")
}

// convert renders a conversion of expr to typ, omitted when expr already has that type.
func convert(p *TypePrinter, typ types.Type, from types.Type, expr string) string {
	if types.Identical(typ, from) {
		return expr
	}
	return fmt.Sprintf("%v(%v)", p.TypeString(typ), expr)
}

var (
	int64Type = types.Typ[types.Int64]
	boolType  = types.Typ[types.Bool]
	strType   = types.Typ[types.String]
	bytesType = types.NewSlice(types.Typ[types.Byte])
)
