// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

// DynamicSpecs resolves named spec values and expressions over them.
type DynamicSpecs interface {
	ResolveSpecValue(name string) (bool, uint64, error)
}

func ResolveSpecValueWithDefault(ds DynamicSpecs, name string, defaultValue uint64) (uint64, error) {
	hasLimit, limit, err := ds.ResolveSpecValue(name)
	if err != nil {
		return 0, err
	}
	if !hasLimit {
		return defaultValue, nil
	}
	return limit, nil
}
