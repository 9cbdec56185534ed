// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

// Command sproto-dump decodes a sproto message with a schema and prints it as YAML.
//
//	sproto-dump -schema addressbook.yaml -type Person message.bin
//	echo "0300 0000 1c00 0200 05000000 416c696365" | sproto-dump -schema addressbook.yaml -type Person -hex
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pk910/go-sproto/schema"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		schemaPath = flag.String("schema", "", "Schema file (.yaml, .yml or .toml)")
		typeName   = flag.String("type", "", "Message type to decode")
		hexInput   = flag.Bool("hex", false, "Input is hex text instead of binary")
		maxDepth   = flag.Int("max-depth", schema.DefaultMaxDepth, "Maximum nesting depth")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// flags given on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.SchemaPath = *schemaPath
		case "type":
			cfg.TypeName = *typeName
		case "hex":
			cfg.Hex = *hexInput
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "v":
			cfg.Verbose = *verbose
		}
	})

	logger := newLogger(cfg.Verbose)
	err := runDump(logger, cfg, flag.Arg(0), os.Stdout)
	if err != nil {
		logger.Error("dump failed", zap.Error(err))
	}
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// runDump decodes the message read from inputPath (stdin when empty or "-")
// and writes it as YAML to out.
func runDump(logger *zap.Logger, cfg dumpConfig, inputPath string, out io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	s, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return err
	}

	data, err := readInput(inputPath, cfg.Hex)
	if err != nil {
		return err
	}

	logger.Debug("decoding message",
		zap.String("schema", cfg.SchemaPath),
		zap.String("type", cfg.TypeName),
		zap.Int("bytes", len(data)))

	decoder := schema.NewDecoder(s, schema.WithLogger(logger), schema.WithMaxDepth(cfg.MaxDepth))
	result, err := decoder.Decode(cfg.TypeName, data)
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", cfg.TypeName, err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(displayValue(result)); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}

func readInput(path string, hexInput bool) ([]byte, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if !hexInput {
		return data, nil
	}

	text := strings.Join(strings.Fields(string(data)), "")
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return decoded, nil
}

// displayValue renders binary payloads as 0x prefixed hex strings.
func displayValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = displayValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = displayValue(item)
		}
		return out
	case []byte:
		return "0x" + hex.EncodeToString(v)
	case [][]byte:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = "0x" + hex.EncodeToString(item)
		}
		return out
	default:
		return value
	}
}
