// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mfa

import (
	"fmt"
	"sync"
)

// Guard remembers which recoverable conditions a login attempt already
// recovered from. The zero value is ready to use.
type Guard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Observe records condition and fails with ErrRepeatedCondition when it
// was already recorded.
func (g *Guard) Observe(condition string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seen == nil {
		g.seen = make(map[string]struct{})
	}
	if _, ok := g.seen[condition]; ok {
		return fmt.Errorf("%w: %s", ErrRepeatedCondition, condition)
	}
	g.seen[condition] = struct{}{}
	return nil
}

// Seen reports whether condition was observed.
func (g *Guard) Seen(condition string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[condition]
	return ok
}
