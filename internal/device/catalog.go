// Package device holds the catalog of measuring devices an inspector can
// pick in the results step.
package device

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Device is one measuring device of the company.
type Device struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Serial       string `json:"serial"`
}

// Catalog is an in-memory device registry, seeded at startup and
// extendable at runtime. Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	devices map[string]Device
}

// NewCatalog creates a catalog seeded with the given devices.
func NewCatalog(seed ...Device) *Catalog {
	c := &Catalog{devices: make(map[string]Device, len(seed))}
	for _, d := range seed {
		c.devices[d.Name] = d
	}
	return c
}

// DefaultCatalog returns the catalog of commonly used test instruments.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Device{Name: "Fluke 1654B", Manufacturer: "Fluke"},
		Device{Name: "Benning IT 130", Manufacturer: "Benning"},
		Device{Name: "Gossen Metrawatt Profitest MF XTRA", Manufacturer: "Gossen Metrawatt"},
	)
}

// List returns all devices sorted by name.
func (c *Catalog) List() []Device {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks up a device by name.
func (c *Catalog) Get(name string) (Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.devices[name]
	return d, ok
}

// Add registers a device. The name must be non-empty and unused.
func (c *Catalog) Add(d Device) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("device name is empty")
	}
	d.Name = name

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.devices[name]; exists {
		return fmt.Errorf("device %q already registered", name)
	}
	c.devices[name] = d
	return nil
}
