// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

// Command sproto-gen generates DecodeSproto and EncodeSproto methods for
// tagged struct types of a Go package.
//
//	sproto-gen -package ./models -types Person,AddressBook -output models/models_sproto.go
package main

import (
	"flag"
	"fmt"
	"go/types"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/pk910/go-sproto/codegen"
)

func main() {
	var (
		packagePath = flag.String("package", "", "Go package path to analyze")
		typeNames   = flag.String("types", "", "Comma-separated list of type names to generate code for")
		outputFile  = flag.String("output", "", "Output file path for generated code")
		verbose     = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	err := run(logger, *packagePath, *typeNames, *outputFile)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
	}
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func run(logger *zap.Logger, packagePath, typeNames, outputFile string) error {
	if packagePath == "" {
		return fmt.Errorf("package path is required (-package)")
	}
	if typeNames == "" {
		return fmt.Errorf("type names are required (-types)")
	}
	if outputFile == "" {
		return fmt.Errorf("output file is required (-output)")
	}

	logger.Debug("analyzing package",
		zap.String("package", packagePath),
		zap.String("types", typeNames),
		zap.String("output", outputFile))

	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, packagePath)
	if err != nil {
		return fmt.Errorf("failed to load package %s: %w", packagePath, err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages found for %s", packagePath)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		for _, err := range pkg.Errors {
			logger.Warn("package error", zap.Error(err))
		}
		return fmt.Errorf("package %s has errors", packagePath)
	}

	logger.Debug("loaded package", zap.String("name", pkg.Name))

	foundTypes, err := lookupTypes(pkg.Types, typeNames)
	if err != nil {
		return err
	}

	codeGen := codegen.NewCodeGenerator()
	if err := codeGen.BuildFile(outputFile, foundTypes...); err != nil {
		return err
	}

	codeMap, err := codeGen.GenerateToMap()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	generatedCode, exists := codeMap[outputFile]
	if !exists {
		return fmt.Errorf("generated code not found for file %s", outputFile)
	}

	if err := os.WriteFile(outputFile, []byte(generatedCode), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputFile, err)
	}

	logger.Info("generated sproto code",
		zap.Int("types", len(foundTypes)),
		zap.Int("bytes", len(generatedCode)),
		zap.String("output", outputFile))
	return nil
}

// lookupTypes resolves a comma separated list of type names in pkg.
func lookupTypes(pkg *types.Package, typeNames string) ([]types.Type, error) {
	scope := pkg.Scope()
	found := []types.Type{}

	for _, typeName := range strings.Split(typeNames, ",") {
		typeName = strings.TrimSpace(typeName)
		if typeName == "" {
			continue
		}

		obj := scope.Lookup(typeName)
		if obj == nil {
			return nil, fmt.Errorf("type %s not found in package %s", typeName, pkg.Path())
		}

		typeObj, ok := obj.(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("object %s is not a type in package %s", typeName, pkg.Path())
		}

		found = append(found, typeObj.Type())
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no type names given")
	}
	return found, nil
}
