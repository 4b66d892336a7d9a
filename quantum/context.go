package quantum

import (
	"log/slog"
	"maps"
	"slices"
)

// Options configures one top-level Represent call.
type Options struct {
	Format Format
	// Basis is the basis specifier: nil, a state or operator Object, or a
	// *Kind.
	Basis Basis
	// Extra is handed to leaf rules unchanged.
	Extra  map[string]any
	Logger *slog.Logger
}

// Context is the per-call record threaded through one descent: the options,
// the running dummy index and the unresolved identity insertions.
type Context struct {
	opts     Options
	index    int
	indexSet bool
	unities  []int
}

// NewContext starts a fresh descent. The index is unset until first used.
func NewContext(opts Options) *Context {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Context{opts: opts}
}

func (c *Context) Options() Options     { return c.opts }
func (c *Context) Format() Format       { return c.opts.Format }
func (c *Context) Basis() Basis         { return c.opts.Basis }
func (c *Context) Logger() *slog.Logger { return c.opts.Logger }

// Index returns the current dummy index, starting it at 1 if unset.
func (c *Context) Index() int {
	if !c.indexSet {
		c.index, c.indexSet = 1, true
	}
	return c.index
}

// SetIndex starts the dummy index at n, for callers that evaluate a single
// leaf inside a larger expression they are enumerating themselves.
func (c *Context) SetIndex(n int) { c.index, c.indexSet = n, true }

// Unities returns a copy of the unresolved identity indices.
func (c *Context) Unities() []int { return slices.Clone(c.unities) }

// Extra looks up a pass-through option.
func (c *Context) Extra(key string) (any, bool) {
	v, ok := c.opts.Extra[key]
	return v, ok
}

// ExtraKeys lists the pass-through option names in sorted order.
func (c *Context) ExtraKeys() []string {
	return slices.Sorted(maps.Keys(c.opts.Extra))
}

// enterProduct starts the index at 1 or advances it, and returns the mark
// below which unities belong to enclosing products.
func (c *Context) enterProduct() int {
	if !c.indexSet {
		c.index, c.indexSet = 1, true
	} else {
		c.index++
	}
	return len(c.unities)
}

func (c *Context) bump() { c.index++ }

func (c *Context) saveIndex() (int, bool) { return c.index, c.indexSet }

func (c *Context) restoreIndex(index int, set bool) { c.index, c.indexSet = index, set }

func (c *Context) recordUnity() { c.unities = append(c.unities, c.index) }

// takeUnities removes and returns the entries recorded since mark.
func (c *Context) takeUnities(mark int) []int {
	pending := slices.Clone(c.unities[mark:])
	c.unities = c.unities[:mark]
	return pending
}
