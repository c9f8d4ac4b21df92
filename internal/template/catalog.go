// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package template maps template names to the content placeholders
// they expose.
package template

import "sync"

// DefaultTemplate is used for pages that do not set a template and
// have no ancestor with one.
const DefaultTemplate = "default"

// Catalog is a registry of templates and their placeholder content
// types. It is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string][]string
}

// NewCatalog creates a catalog with a default template exposing a
// single body placeholder.
func NewCatalog() *Catalog {
	c := &Catalog{templates: make(map[string][]string)}
	c.Register(DefaultTemplate, "body")
	return c
}

// Register adds or replaces a template with its placeholder content
// types. Registration order of placeholders is preserved.
func (c *Catalog) Register(name string, ctypes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[name] = append([]string(nil), ctypes...)
}

// Placeholders returns the content types exposed by a template.
// Unknown templates fall back to the default template's placeholders.
func (c *Catalog) Placeholders(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctypes, ok := c.templates[name]
	if !ok {
		ctypes = c.templates[DefaultTemplate]
	}
	return append([]string(nil), ctypes...)
}

// Has reports whether a template is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.templates[name]
	return ok
}

// Names returns all registered template names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	return names
}
