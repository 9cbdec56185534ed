// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pk910/go-sproto/schema"
)

const testSchema = `
types:
  Person:
    - {name: name, tag: 0, type: string}
    - {name: age, tag: 1, type: integer}
    - {name: marital, tag: 2, type: boolean}
    - {name: children, tag: 3, type: "*Person"}
  Blob:
    - {name: data, tag: 0, type: binary}
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dump.toml", `
schema = " addressbook.yaml "
type = "Person"
hex = true
max_depth = 3
`)

	cfg, err := loadConfig(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, dumpConfig{
		SchemaPath: "addressbook.yaml",
		TypeName:   "Person",
		Hex:        true,
		MaxDepth:   3,
	}, cfg)

	// keys left out keep their previous value
	path = writeFile(t, dir, "partial.toml", `type = "Data"`)
	cfg, err = loadConfig(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "Data", cfg.TypeName)

	path = writeFile(t, dir, "unknown.toml", `output = "x"`)
	_, err = loadConfig(path, defaultConfig())
	require.ErrorContains(t, err, "unknown config keys")

	path = writeFile(t, dir, "negative.toml", `max_depth = -1`)
	_, err = loadConfig(path, defaultConfig())
	require.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "missing.toml"), defaultConfig())
	require.Error(t, err)
}

func TestRunDump(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", testSchema)

	t.Run("HexPerson", func(t *testing.T) {
		input := writeFile(t, dir, "alice.hex", "0x0300 0000 1c00 0200\n05000000 416c696365\n")

		out := &bytes.Buffer{}
		cfg := dumpConfig{SchemaPath: schemaPath, TypeName: "Person", Hex: true, MaxDepth: 8}
		require.NoError(t, runDump(zap.NewNop(), cfg, input, out))
		assert.YAMLEq(t, "name: Alice\nage: 13\nmarital: false\n", out.String())
	})

	t.Run("BinaryBlob", func(t *testing.T) {
		input := writeFile(t, dir, "blob.bin", string([]byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0xde, 0xad}))

		out := &bytes.Buffer{}
		cfg := dumpConfig{SchemaPath: schemaPath, TypeName: "Blob", MaxDepth: 8}
		require.NoError(t, runDump(zap.NewNop(), cfg, input, out))
		assert.YAMLEq(t, "data: \"0xdead\"\n", out.String())
	})

	t.Run("Errors", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.Error(t, runDump(zap.NewNop(), dumpConfig{TypeName: "Person"}, "", out))
		require.Error(t, runDump(zap.NewNop(), dumpConfig{SchemaPath: schemaPath}, "", out))

		bad := writeFile(t, dir, "bad.hex", "zz")
		cfg := dumpConfig{SchemaPath: schemaPath, TypeName: "Person", Hex: true, MaxDepth: 8}
		require.ErrorContains(t, runDump(zap.NewNop(), cfg, bad, out), "invalid hex")

		truncated := writeFile(t, dir, "truncated.hex", "0300 0000")
		require.ErrorContains(t, runDump(zap.NewNop(), cfg, truncated, out), "failed to decode Person")
	})
}
