// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import (
	"fmt"

	"github.com/casbin/govaluate"

	"github.com/pk910/go-sproto/sprotoutils"
)

var _ sprotoutils.DynamicSpecs = (*Sproto)(nil)

type cachedSpecValue struct {
	resolved bool
	value    uint64
}

// ResolveSpecValue evaluates a limit expression against the instance's spec values.
//
// The expression may be a plain number, a spec name or arithmetic over spec
// names (e.g. "MAX_PEERS*2"). resolved is false when the expression references
// spec values that are not defined; callers treat that as "no limit".
func (s *Sproto) ResolveSpecValue(name string) (bool, uint64, error) {
	s.specMutex.Lock()
	defer s.specMutex.Unlock()

	if cachedValue := s.specValueCache[name]; cachedValue != nil {
		return cachedValue.resolved, cachedValue.value, nil
	}

	cachedValue := &cachedSpecValue{}
	expression, err := govaluate.NewEvaluableExpression(name)
	if err != nil {
		return false, 0, fmt.Errorf("error parsing dynamic spec expression: %v", err)
	}

	result, err := expression.Evaluate(s.specValues)
	if err == nil {
		value, ok := result.(float64)
		if ok && value >= 0 {
			cachedValue.resolved = true
			cachedValue.value = uint64(value)
			if float64(cachedValue.value) < value {
				// limits are element counts, round partial values up
				cachedValue.value++
			}
		}
	}

	s.specValueCache[name] = cachedValue
	return cachedValue.resolved, cachedValue.value, nil
}
