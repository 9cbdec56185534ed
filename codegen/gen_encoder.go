// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"fmt"
	"go/types"

	sproto "github.com/pk910/go-sproto"
)

// generateEncodeField emits the statements writing one field in EncodeSproto.
func generateEncodeField(field *FieldInfo, p *TypePrinter) (string, error) {
	w := newCodeWriter(field)
	source := "t." + field.Name
	value := source
	if field.IsPtr {
		value = "*" + source
		w.line("if %v != nil {", source)
	}

	write := func(format string, args ...any) {
		w.line("if err := "+format+"; err != nil {", args...)
		w.returnErr("err")
		w.line("}")
	}

	switch field.SprotoType {
	case sproto.SprotoIntegerType:
		write("e.WriteInteger(%v, %v)", field.Tag, convert(p, int64Type, field.Value, value))

	case sproto.SprotoBooleanType:
		write("e.WriteBoolean(%v, %v)", field.Tag, convert(p, boolType, field.Value, value))

	case sproto.SprotoStringType:
		w.checkLimit("len(" + value + ")")
		write("e.WriteString(%v, %v)", field.Tag, convert(p, strType, field.Value, value))

	case sproto.SprotoBinaryType:
		w.checkLimit("len(" + value + ")")
		write("e.WriteBinary(%v, %v)", field.Tag, convert(p, bytesType, field.Value, value))

	case sproto.SprotoStructType:
		if field.IsPtr {
			write("e.WriteObject(%v, %v)", field.Tag, source)
		} else {
			write("e.WriteObject(%v, &%v)", field.Tag, source)
		}

	case sproto.SprotoIntegerListType:
		w.checkLimit("len(" + value + ")")
		writeListConvert(w, p, field, "WriteIntegerList", int64Type, write)

	case sproto.SprotoBooleanListType:
		w.checkLimit("len(" + value + ")")
		writeListConvert(w, p, field, "WriteBooleanList", boolType, write)

	case sproto.SprotoStringListType:
		w.checkLimit("len(" + value + ")")
		writeListConvert(w, p, field, "WriteStringList", strType, write)

	case sproto.SprotoBinaryListType:
		w.checkLimit("len(" + value + ")")
		writeListConvert(w, p, field, "WriteBinaryList", bytesType, write)

	case sproto.SprotoStructListType:
		w.checkLimit("len(" + value + ")")
		if field.ElemPtr {
			write("sproto.WriteObjects(e, %v, %v)", field.Tag, source)
		} else {
			write("e.WriteObjectListFunc(%v, len(%v), func(i int, child *sproto.Encoder) error { return %v[i].EncodeSproto(child) })", field.Tag, source, source)
		}

	default:
		return "", fmt.Errorf("unsupported sproto type %v", field.SprotoType)
	}

	if field.IsPtr {
		w.line("}")
	}

	return w.String(), nil
}

// writeListConvert writes a scalar list, copying it into the wire slice type
// when the field's element type differs.
func writeListConvert(w *codeWriter, p *TypePrinter, field *FieldInfo, method string, wireElem types.Type, write func(string, ...any)) {
	source := "t." + field.Name
	wire := types.NewSlice(wireElem)

	if field.Direct {
		write("e.%v(%v, %v)", method, field.Tag, convert(p, wire, field.Value, source))
		return
	}

	w.line("{")
	w.line("list := make(%v, len(%v))", p.TypeString(wire), source)
	w.line("for i, v := range %v {", source)
	w.line("list[i] = %v", convert(p, wireElem, field.Elem, "v"))
	w.line("}")
	write("e.%v(%v, list)", method, field.Tag)
	w.line("}")
}
