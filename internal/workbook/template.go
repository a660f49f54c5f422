package workbook

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// TemplateCache loads a template workbook once and hands out fresh copies.
// The cached bytes are never mutated; every Fresh call parses a new workbook
// so exports can't bleed into each other or into the template.
type TemplateCache struct {
	path string

	mu   sync.Mutex
	data []byte
}

// NewTemplateCache creates a cache for the template at path.
// The file is not read until the first Fresh call.
func NewTemplateCache(path string) *TemplateCache {
	return &TemplateCache{path: path}
}

// Fresh returns a new workbook parsed from the cached template bytes,
// loading the template from disk on first use.
func (c *TemplateCache) Fresh() (*File, error) {
	c.mu.Lock()
	if c.data == nil {
		data, err := os.ReadFile(c.path)
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("load template %s: %w", c.path, err)
		}
		c.data = data
	}
	data := c.data
	c.mu.Unlock()

	return OpenReader(bytes.NewReader(data))
}

// Invalidate drops the cached bytes so the next Fresh call re-reads the file.
func (c *TemplateCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
}
