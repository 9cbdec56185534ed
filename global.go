// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto

import "sync"

var (
	globalSproto      *Sproto
	globalSprotoMutex sync.Mutex
)

func GetGlobalSproto() *Sproto {
	globalSprotoMutex.Lock()
	defer globalSprotoMutex.Unlock()

	if globalSproto == nil {
		globalSproto = NewSproto(nil)
	}
	return globalSproto
}

func SetGlobalSpecs(specs map[string]any) {
	globalSprotoMutex.Lock()
	defer globalSprotoMutex.Unlock()

	globalSproto = NewSproto(specs)
}

// Marshal encodes source with the global instance.
func Marshal(source any) ([]byte, error) {
	return GetGlobalSproto().Marshal(source)
}

// Unmarshal decodes data into target with the global instance.
func Unmarshal(target any, data []byte) error {
	return GetGlobalSproto().Unmarshal(target, data)
}
