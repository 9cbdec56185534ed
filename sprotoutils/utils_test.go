// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pk910/go-sproto/sprotoutils"
)

func TestIntegerHelpers(t *testing.T) {
	assert.Equal(t, int64(2), sprotoutils.Expand64(2))
	assert.Equal(t, int64(-2), sprotoutils.Expand64(0xfffffffe))
	assert.Equal(t, int64(math.MinInt32), sprotoutils.Expand64(0x80000000))
	assert.Equal(t, int64(0x7fffffff), sprotoutils.Expand64(0x7fffffff))

	assert.Equal(t, int64(-1), sprotoutils.Join64(0xffffffff, 0xffffffff))
	assert.Equal(t, int64(1<<32+1), sprotoutils.Join64(1, 1))

	assert.True(t, sprotoutils.FitsInt32(math.MinInt32))
	assert.True(t, sprotoutils.FitsInt32(math.MaxInt32))
	assert.False(t, sprotoutils.FitsInt32(math.MaxInt32+1))
	assert.False(t, sprotoutils.FitsInt32(math.MinInt32-1))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "hello", sprotoutils.DecodeText([]byte("hello")))
	assert.Equal(t, "", sprotoutils.DecodeText(nil))
	assert.Equal(t, "日本", sprotoutils.DecodeText([]byte("日本")))
	assert.Equal(t, "a\uFFFDb", sprotoutils.DecodeText([]byte{'a', 0xff, 'b'}))
}

type staticSpecs map[string]uint64

func (s staticSpecs) ResolveSpecValue(name string) (bool, uint64, error) {
	if name == "BROKEN" {
		return false, 0, errors.New("broken")
	}
	v, ok := s[name]
	return ok, v, nil
}

func TestResolveSpecValueWithDefault(t *testing.T) {
	specs := staticSpecs{"LIMIT": 7}

	v, err := sprotoutils.ResolveSpecValueWithDefault(specs, "LIMIT", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	v, err = sprotoutils.ResolveSpecValueWithDefault(specs, "OTHER", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	_, err = sprotoutils.ResolveSpecValueWithDefault(specs, "BROKEN", 1)
	require.Error(t, err)
}

func TestFitsInteger(t *testing.T) {
	tests := []struct {
		value  int64
		bits   int
		signed bool
		fits   bool
	}{
		{127, 8, true, true},
		{128, 8, true, false},
		{-128, 8, true, true},
		{-129, 8, true, false},
		{255, 8, false, true},
		{256, 8, false, false},
		{-1, 8, false, false},
		{-1, 64, false, true},
		{math.MinInt64, 64, true, true},
		{math.MaxUint32, 32, false, true},
		{math.MaxUint32 + 1, 32, false, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.fits, sprotoutils.FitsInteger(test.value, test.bits, test.signed), "%v in %v bits (signed %v)", test.value, test.bits, test.signed)
	}
}
