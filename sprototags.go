// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type SprotoType uint8

const (
	SprotoUnspecifiedType SprotoType = iota
	SprotoMessageType

	// scalar types
	SprotoIntegerType
	SprotoBooleanType
	SprotoStringType
	SprotoBinaryType
	SprotoStructType

	// array types
	SprotoIntegerListType
	SprotoBooleanListType
	SprotoStringListType
	SprotoBinaryListType
	SprotoStructListType
)

func (t SprotoType) String() string {
	switch t {
	case SprotoMessageType:
		return "message"
	case SprotoIntegerType:
		return "integer"
	case SprotoBooleanType:
		return "boolean"
	case SprotoStringType:
		return "string"
	case SprotoBinaryType:
		return "binary"
	case SprotoStructType:
		return "struct"
	case SprotoIntegerListType:
		return "*integer"
	case SprotoBooleanListType:
		return "*boolean"
	case SprotoStringListType:
		return "*string"
	case SprotoBinaryListType:
		return "*binary"
	case SprotoStructListType:
		return "*struct"
	default:
		return "unspecified"
	}
}

// IsList reports whether values of this type are encoded as arrays.
func (t SprotoType) IsList() bool {
	return t >= SprotoIntegerListType
}

// FieldTags holds the parsed sproto annotations of a struct field.
//
//	type Person struct {
//	    Name     string    `sproto:"0"`
//	    Children []*Person `sproto:"3" sproto-max:"MAX_CHILDREN"`
//	}
type FieldTags struct {
	Tag           int    // wire tag from `sproto`
	MaxExpression string // `sproto-max` limit expression, empty if unlimited
}

// ParseFieldTags parses the `sproto` and `sproto-max` annotations of a struct tag.
// ok is false when the field carries no sproto tag or is explicitly ignored with "-".
func ParseFieldTags(tag reflect.StructTag) (tags FieldTags, ok bool, err error) {
	tagStr, hasTag := tag.Lookup("sproto")
	if !hasTag {
		return FieldTags{}, false, nil
	}

	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "-" {
		return FieldTags{}, false, nil
	}

	tagNum, err := strconv.ParseUint(tagStr, 10, 16)
	if err != nil {
		return FieldTags{}, false, fmt.Errorf("error parsing sproto tag '%v': %v", tagStr, err)
	}
	tags.Tag = int(tagNum)

	if maxStr, hasMax := tag.Lookup("sproto-max"); hasMax {
		tags.MaxExpression = strings.TrimSpace(maxStr)
		if tags.MaxExpression == "" {
			return FieldTags{}, false, fmt.Errorf("empty sproto-max tag")
		}
	}

	return tags, true, nil
}
