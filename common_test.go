// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto_test

import (
	sproto "github.com/pk910/go-sproto"
)

// Wire examples from the sproto format documentation.
//
//	.Person {
//	    name 0 : string
//	    age 1 : integer
//	    marital 2 : boolean
//	    children 3 : *Person
//	}
//
//	.Data {
//	    numbers 0 : *integer
//	    bools 1 : *boolean
//	    number 2 : integer
//	    bignumber 3 : integer
//	}
var (
	alicePayload = fromHex(`
		03 00
		00 00
		1C 00
		02 00
		05 00 00 00
		41 6C 69 63 65`)

	bobPayload = fromHex(`
		04 00
		00 00
		52 00
		01 00
		00 00
		03 00 00 00 42 6F 62
		26 00 00 00
		0F 00 00 00 02 00 00 00 1C 00 05 00 00 00 41 6C 69 63 65
		0F 00 00 00 02 00 00 00 0C 00 05 00 00 00 43 61 72 6F 6C`)

	numbersPayload = fromHex(`
		01 00
		00 00
		15 00 00 00
		04
		01 00 00 00 02 00 00 00 03 00 00 00 04 00 00 00 05 00 00 00`)

	bigNumbersPayload = fromHex(`
		01 00
		00 00
		19 00 00 00
		08
		01 00 00 00 01 00 00 00
		02 00 00 00 01 00 00 00
		03 00 00 00 01 00 00 00`)

	boolsPayload = fromHex(`
		02 00
		01 00
		00 00
		03 00 00 00
		00 01 00`)

	numberPayload = fromHex(`
		03 00
		03 00
		00 00
		00 00
		04 00 00 00 A0 86 01 00
		08 00 00 00 00 1C F4 AB FD FF FF FF`)
)

// Person is a hand written message type.
type Person struct {
	Name     string
	Age      int64
	Marital  bool
	Children []*Person

	hasMarital bool
}

func (p *Person) DecodeSproto(d *sproto.Decoder) error {
	for {
		tag, ok := d.NextTag()
		if !ok {
			return nil
		}

		var err error
		switch tag {
		case 0:
			p.Name, err = d.ReadString()
		case 1:
			p.Age, err = d.ReadInteger()
		case 2:
			p.Marital, err = d.ReadBoolean()
			p.hasMarital = true
		case 3:
			p.Children, err = sproto.ReadObjects[Person](d)
		default:
			err = d.SkipField()
		}
		if err != nil {
			return err
		}
	}
}

func (p *Person) EncodeSproto(e *sproto.Encoder) error {
	if err := e.WriteString(0, p.Name); err != nil {
		return err
	}
	if err := e.WriteInteger(1, p.Age); err != nil {
		return err
	}
	if p.hasMarital {
		if err := e.WriteBoolean(2, p.Marital); err != nil {
			return err
		}
	}
	return sproto.WriteObjects(e, 3, p.Children)
}

// Data is a hand written message type.
type Data struct {
	Numbers   []int64
	Bools     []bool
	Number    int64
	BigNumber int64
}

func (m *Data) DecodeSproto(d *sproto.Decoder) error {
	for {
		tag, ok := d.NextTag()
		if !ok {
			return nil
		}

		var err error
		switch tag {
		case 0:
			m.Numbers, err = d.ReadIntegerList()
		case 1:
			m.Bools, err = d.ReadBooleanList()
		case 2:
			m.Number, err = d.ReadInteger()
		case 3:
			m.BigNumber, err = d.ReadInteger()
		default:
			err = d.SkipField()
		}
		if err != nil {
			return err
		}
	}
}

// TaggedPerson is the reflection codec counterpart of Person.
type TaggedPerson struct {
	Name     string          `sproto:"0"`
	Age      int64           `sproto:"1"`
	Marital  *bool           `sproto:"2"`
	Children []*TaggedPerson `sproto:"3" sproto-max:"MAX_CHILDREN"`
}

// TaggedData is the reflection codec counterpart of Data.
type TaggedData struct {
	Numbers   []int64 `sproto:"0"`
	Bools     []bool  `sproto:"1"`
	Number    int32   `sproto:"2"`
	BigNumber int64   `sproto:"3"`
}
