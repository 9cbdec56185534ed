// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"fmt"
	"go/types"

	sproto "github.com/pk910/go-sproto"
)

// generateDecodeField emits the statements of one DecodeSproto case clause.
func generateDecodeField(field *FieldInfo, p *TypePrinter) (string, error) {
	w := newCodeWriter(field)
	target := "t." + field.Name

	assign := func(expr string) {
		if field.IsPtr {
			w.line("val := %v", expr)
			w.line("%v = &val", target)
		} else {
			w.line("%v = %v", target, expr)
		}
	}

	switch field.SprotoType {
	case sproto.SprotoIntegerType:
		w.line("v, err := d.ReadInteger()")
		w.checkErr()
		w.checkRange("v")
		assign(convert(p, field.Value, int64Type, "v"))

	case sproto.SprotoBooleanType:
		w.line("v, err := d.ReadBoolean()")
		w.checkErr()
		assign(convert(p, field.Value, boolType, "v"))

	case sproto.SprotoStringType:
		w.line("v, err := d.ReadString()")
		w.checkErr()
		w.checkLimit("len(v)")
		assign(convert(p, field.Value, strType, "v"))

	case sproto.SprotoBinaryType:
		w.line("v, err := d.ReadBinary()")
		w.checkErr()
		w.checkLimit("len(v)")
		assign(convert(p, field.Value, bytesType, "append([]byte(nil), v...)"))

	case sproto.SprotoStructType:
		if field.IsPtr {
			w.line("%v = new(%v)", target, p.TypeString(field.Value))
			w.line("if err := d.ReadObject(%v); err != nil {", target)
		} else {
			w.line("if err := d.ReadObject(&%v); err != nil {", target)
		}
		w.returnErr("err")
		w.line("}")

	case sproto.SprotoIntegerListType:
		w.line("list, err := d.ReadIntegerList()")
		w.checkErr()
		w.checkLimit("len(list)")
		if field.Direct {
			assign(convert(p, field.Value, types.NewSlice(int64Type), "list"))
			break
		}
		w.line("%v = make(%v, len(list))", target, p.TypeString(field.Value))
		w.line("for i, v := range list {")
		w.checkRange("v")
		w.line("%v[i] = %v", target, convert(p, field.Elem, int64Type, "v"))
		w.line("}")

	case sproto.SprotoBooleanListType:
		w.line("list, err := d.ReadBooleanList()")
		w.checkErr()
		w.checkLimit("len(list)")
		writeListCopy(w, p, field, types.NewSlice(boolType), "v")

	case sproto.SprotoStringListType:
		w.line("list, err := d.ReadStringList()")
		w.checkErr()
		w.checkLimit("len(list)")
		writeListCopy(w, p, field, types.NewSlice(strType), "v")

	case sproto.SprotoBinaryListType:
		w.line("list, err := d.ReadBinaryList()")
		w.checkErr()
		w.checkLimit("len(list)")
		writeListCopy(w, p, field, nil, "append([]byte(nil), v...)")

	case sproto.SprotoStructListType:
		w.line("list, err := sproto.ReadObjects[%v](d)", p.TypeString(field.Elem))
		w.checkErr()
		w.checkLimit("len(list)")
		if field.ElemPtr {
			assign(convert(p, field.Value, types.NewSlice(types.NewPointer(field.Elem)), "list"))
			break
		}
		w.line("%v = make(%v, len(list))", target, p.TypeString(field.Value))
		w.line("for i, v := range list {")
		w.line("%v[i] = *v", target)
		w.line("}")

	default:
		return "", fmt.Errorf("unsupported sproto type %v", field.SprotoType)
	}

	return w.String(), nil
}

// writeListCopy assigns list to the field, converting it as a whole when the
// field is a direct match of wire, element by element otherwise.
func writeListCopy(w *codeWriter, p *TypePrinter, field *FieldInfo, wire types.Type, elemExpr string) {
	target := "t." + field.Name
	if field.Direct && wire != nil && elemExpr == "v" {
		w.line("%v = %v", target, convert(p, field.Value, wire, "list"))
		return
	}

	var elemFrom types.Type = bytesType
	if wire != nil {
		elemFrom = wire.(*types.Slice).Elem()
	}

	w.line("%v = make(%v, len(list))", target, p.TypeString(field.Value))
	w.line("for i, v := range list {")
	w.line("%v[i] = %v", target, convert(p, field.Elem, elemFrom, elemExpr))
	w.line("}")
}
