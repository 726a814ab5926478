package variant

import "fmt"

// Catalog holds the variant specs per platform in declared order.
// Resolve order is deterministic: platforms in request order, variants
// in catalog order.
type Catalog struct {
	specs map[Platform][]VariantSpec
	order map[Platform][]string
}

// defaultSpecs is the static catalog. Target dimensions are the
// platform-recommended pixel sizes.
var defaultSpecs = []VariantSpec{
	{PlatformInstagram, "square", 1, 1, 1080, 1080},
	{PlatformInstagram, "portrait", 4, 5, 1080, 1350},
	{PlatformInstagram, "landscape", 191, 100, 1080, 565},
	{PlatformFacebook, "post", 191, 100, 1200, 628},
	{PlatformFacebook, "square", 1, 1, 1200, 1200},
	{PlatformPinterest, "pin", 2, 3, 1000, 1500},
	{PlatformPinterest, "square", 1, 1, 1000, 1000},
	{PlatformPinterest, "tall", 1, 2, 1000, 2000},
	{PlatformWebsite, "hero", 16, 9, 1920, 1080},
	{PlatformWebsite, "banner", 3, 1, 2400, 800},
	{PlatformWebsite, "thumbnail", 1, 1, 600, 600},
	{PlatformStory, "full", 9, 16, 1080, 1920},
}

// NewCatalog builds a catalog from specs, validating every entry.
// A bad entry is a programming error in the table, so it fails hard.
func NewCatalog(specs []VariantSpec) (*Catalog, error) {
	c := &Catalog{
		specs: make(map[Platform][]VariantSpec),
		order: make(map[Platform][]string),
	}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %s/%s: %w", s.Platform, s.Name, err)
		}
		for _, existing := range c.order[s.Platform] {
			if existing == s.Name {
				return nil, fmt.Errorf("duplicate catalog entry %s/%s", s.Platform, s.Name)
			}
		}
		c.specs[s.Platform] = append(c.specs[s.Platform], s)
		c.order[s.Platform] = append(c.order[s.Platform], s.Name)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog. Panics only on a broken
// static table, which the catalog tests pin.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultSpecs)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the specs for the requested platforms. With nil
// variantNames every spec per platform is returned; otherwise only the
// intersection, silently dropping names a platform does not define.
// Callers detect under-fulfillment by comparing counts. An empty result
// is not an error here; callers treat it as a client error.
func (c *Catalog) Resolve(platforms []Platform, variantNames []string) []VariantSpec {
	var resolved []VariantSpec

	for _, p := range platforms {
		specs, ok := c.specs[p]
		if !ok {
			continue
		}
		if variantNames == nil {
			resolved = append(resolved, specs...)
			continue
		}
		for _, s := range specs {
			for _, name := range variantNames {
				if s.Name == name {
					resolved = append(resolved, s)
					break
				}
			}
		}
	}

	return resolved
}

// Get looks up a single spec.
func (c *Catalog) Get(platform Platform, name string) (VariantSpec, bool) {
	for _, s := range c.specs[platform] {
		if s.Name == name {
			return s, true
		}
	}
	return VariantSpec{}, false
}

// All returns every spec in catalog order.
func (c *Catalog) All() []VariantSpec {
	var all []VariantSpec
	for _, p := range Platforms() {
		all = append(all, c.specs[p]...)
	}
	return all
}
