package discovery

import (
	"context"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"
)

// Catalog is the in-memory mirror of the store's region table.
type Catalog struct {
	repo    ports.RegionRepository
	regions region.Set
}

func NewCatalog(repo ports.RegionRepository) *Catalog {
	return &Catalog{repo: repo}
}

// LoadAll replaces the whole catalog with the store contents. On failure the
// previous contents are kept.
func (c *Catalog) LoadAll(ctx context.Context) error {
	all, err := c.repo.AllRegions(ctx)
	if err != nil {
		return ports.StorageError("load regions", err)
	}
	c.regions = region.NewSet(all...)
	return nil
}

func (c *Catalog) All() []region.Region {
	return c.regions.Slice()
}

func (c *Catalog) Add(r region.Region) {
	c.regions.Add(r)
}

func (c *Catalog) FindFirstByName(name string) (region.Region, bool) {
	return c.regions.FindByName(name)
}

func (c *Catalog) Len() int {
	return c.regions.Len()
}
