// Package channels describes the outreach channels a user can connect and
// the credential fields each one needs.
package channels

import (
	"slices"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
)

const (
	WhatsApp  = "whatsapp"
	Voice     = "voice"
	Instagram = "instagram"
	Facebook  = "facebook"
	Email     = "email"
	Portals   = "portals"
)

// Catalog is a read-only set of channel specs, ordered for display.
type Catalog struct {
	specs []domain.ChannelSpec
	index map[string]int
}

// NewCatalog builds a catalog from specs. Later duplicates replace earlier
// ones.
func NewCatalog(specs ...domain.ChannelSpec) *Catalog {
	c := &Catalog{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		if i, ok := c.index[s.Name]; ok {
			c.specs[i] = s
			continue
		}
		c.index[s.Name] = len(c.specs)
		c.specs = append(c.specs, s)
	}
	return c
}

// Default returns the built-in outreach channels.
func Default() *Catalog {
	return NewCatalog(defaultSpecs...)
}

// Lookup returns a copy of the named spec.
func (c *Catalog) Lookup(name string) (domain.ChannelSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return domain.ChannelSpec{}, false
	}
	return cloneSpec(c.specs[i]), true
}

// All returns copies of every spec in display order.
func (c *Catalog) All() []domain.ChannelSpec {
	out := make([]domain.ChannelSpec, len(c.specs))
	for i, s := range c.specs {
		out[i] = cloneSpec(s)
	}
	return out
}

// RequiredKeys lists the config keys the channel needs, or nil for an
// unknown channel.
func (c *Catalog) RequiredKeys(name string) []string {
	spec, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	keys := make([]string, len(spec.Fields))
	for i, f := range spec.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Complete reports whether cfg has a non-empty value for every required
// field of the channel. Unknown channels are never complete.
func (c *Catalog) Complete(name string, cfg map[string]string) bool {
	keys := c.RequiredKeys(name)
	if keys == nil {
		return false
	}
	return !slices.ContainsFunc(keys, func(k string) bool { return cfg[k] == "" })
}

func cloneSpec(s domain.ChannelSpec) domain.ChannelSpec {
	s.Fields = slices.Clone(s.Fields)
	return s
}
