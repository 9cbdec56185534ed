// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package main

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLookupTypes(t *testing.T) {
	pkg := types.NewPackage("example.com/models", "models")
	person := types.NewTypeName(0, pkg, "Person", nil)
	types.NewNamed(person, types.NewStruct(nil, nil), nil)
	pkg.Scope().Insert(person)
	pkg.Scope().Insert(types.NewVar(0, pkg, "Default", types.Typ[types.Int]))

	found, err := lookupTypes(pkg, " Person , ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "example.com/models.Person", found[0].String())

	_, err = lookupTypes(pkg, "Missing")
	require.ErrorContains(t, err, "not found")

	_, err = lookupTypes(pkg, "Default")
	require.ErrorContains(t, err, "not a type")

	_, err = lookupTypes(pkg, ",")
	require.Error(t, err)
}

func TestRunRequiresFlags(t *testing.T) {
	logger := zap.NewNop()
	require.ErrorContains(t, run(logger, "", "A", "out.go"), "-package")
	require.ErrorContains(t, run(logger, "./x", "", "out.go"), "-types")
	require.ErrorContains(t, run(logger, "./x", "A", ""), "-output")
}
