package engine

// Gift is a redeemable catalog entry.
type Gift struct {
	Key   string
	Name  string
	Price int64
}

// Catalog is the fixed set of redeemable gifts, owned by configuration and
// read-only to the engine. Order is preserved for rendering.
type Catalog struct {
	gifts []Gift
	byKey map[string]Gift
}

func NewCatalog(gifts []Gift) *Catalog {
	byKey := make(map[string]Gift, len(gifts))
	for _, g := range gifts {
		byKey[g.Key] = g
	}
	return &Catalog{gifts: gifts, byKey: byKey}
}

func (c *Catalog) Get(key string) (Gift, bool) {
	g, ok := c.byKey[key]
	return g, ok
}

func (c *Catalog) Gifts() []Gift {
	return c.gifts
}
