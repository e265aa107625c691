package compositor

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/cache"
)

// Compositor is a named effect with candidate techniques ranked best
// first. Technique selection picks the first supported one for the
// active device.
type Compositor struct {
	Name string

	techniques []*Technique

	// sel memoizes the winning technique index per capability set.
	// The index is only meaningful against this compositor's own
	// slice, so the memo lives on the value (names are not unique:
	// per-viewport construction builds the same effect repeatedly)
	// and empties whenever the slice changes.
	sel *cache.ShardedCache[rend.Capabilities, int]
}

// New creates a compositor with no techniques.
func New(name string) *Compositor {
	return &Compositor{Name: name}
}

// AddTechnique appends t and returns the compositor for chaining.
// Adding a candidate invalidates any memoized selection.
func (c *Compositor) AddTechnique(t *Technique) *Compositor {
	c.techniques = append(c.techniques, t)
	if c.sel != nil {
		c.sel.Clear()
	}
	return c
}

// Techniques returns the ranked candidate list.
func (c *Compositor) Techniques() []*Technique {
	return c.techniques
}

func (c *Compositor) selection() *cache.ShardedCache[rend.Capabilities, int] {
	if c.sel == nil {
		c.sel = cache.NewSharded[rend.Capabilities, int](4, hashCaps)
	}
	return c.sel
}

// hashCaps folds the capability scalars for shard selection.
// Capabilities is a comparable value type, so it can key the cache
// directly.
func hashCaps(caps rend.Capabilities) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{
		byte(caps.MaxColorTargets),
		b2b(caps.MixedDepthTargets),
		byte(caps.MaxTextureSize), byte(caps.MaxTextureSize >> 8),
		byte(caps.RenderFormats), byte(caps.RenderFormats >> 8),
		byte(caps.RenderFormats >> 16), byte(caps.RenderFormats >> 24),
	})
	return h.Sum64()
}

func b2b(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// SelectTechnique returns the first supported technique, running the
// full candidate scan only once per capability set. The winning
// technique's support check still runs on memo hits so its resolved
// formats are fresh.
//
// Configuration errors (ErrUnboundInput) abort the scan and are
// returned; capability mismatches only advance it. With no usable
// candidate the returned error wraps ErrUnsupported.
func (c *Compositor) SelectTechnique(caps rend.Capabilities) (*Technique, error) {
	if idx, ok := c.selection().Get(caps); ok {
		if idx < 0 {
			return nil, fmt.Errorf("compositor %q: %w", c.Name, ErrUnsupported)
		}
		t := c.techniques[idx]
		if err := t.Supported(caps); err != nil {
			return nil, err
		}
		return t, nil
	}

	for i, t := range c.techniques {
		err := t.Supported(caps)
		if err == nil {
			c.sel.Set(caps, i)
			rend.Logger().Info("compositor: technique selected",
				"compositor", c.Name, "technique", t.Name)
			return t, nil
		}
		if errors.Is(err, ErrUnboundInput) {
			return nil, err
		}
		rend.Logger().Warn("compositor: technique rejected",
			"compositor", c.Name, "technique", t.Name, "reason", err)
	}

	c.sel.Set(caps, -1)
	return nil, fmt.Errorf("compositor %q: %w", c.Name, ErrUnsupported)
}

// selectTechniqueWith is the uncached scan admitting texture names
// produced by earlier chain entries. Chains with cross-entry inputs
// cannot reuse the memoized outcome because the available-name set is
// chain-specific.
func (c *Compositor) selectTechniqueWith(caps rend.Capabilities, extern map[string]struct{}) (*Technique, error) {
	if len(extern) == 0 {
		return c.SelectTechnique(caps)
	}
	for _, t := range c.techniques {
		err := t.supportedWith(caps, extern)
		if err == nil {
			return t, nil
		}
		if errors.Is(err, ErrUnboundInput) {
			return nil, err
		}
		rend.Logger().Warn("compositor: technique rejected",
			"compositor", c.Name, "technique", t.Name, "reason", err)
	}
	return nil, fmt.Errorf("compositor %q: %w", c.Name, ErrUnsupported)
}
