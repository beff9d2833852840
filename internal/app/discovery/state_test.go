package discovery

import (
	"context"
	"errors"
	"testing"

	"waypoint/internal/app/discovery/discoverytest"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *discoverytest.Repo, names ...string) []region.Region {
	t.Helper()
	out := make([]region.Region, 0, len(names))
	for _, name := range names {
		r := region.Region{ID: uuid.New(), Name: name, XMax: 10, ZMax: 10}
		repo.Store.SeedRegion(r)
		out = append(out, r)
	}
	return out
}

func TestCatalog_LoadAllReplacesContents(t *testing.T) {
	repo := discoverytest.NewRepo()
	seed(t, repo, "beta", "Alpha")
	c := NewCatalog(repo)
	c.Add(region.Region{ID: uuid.New(), Name: "stale"})

	require.NoError(t, c.LoadAll(context.Background()))

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "beta", all[1].Name)
}

func TestCatalog_LoadAllFailureKeepsPrevious(t *testing.T) {
	repo := discoverytest.NewRepo()
	seed(t, repo, "Camp")
	c := NewCatalog(repo)
	require.NoError(t, c.LoadAll(context.Background()))

	repo.AllErr = errors.New("db down")
	err := c.LoadAll(context.Background())
	require.ErrorIs(t, err, ports.ErrStorage)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_OrderingGroupsCaseVariants(t *testing.T) {
	c := NewCatalog(discoverytest.NewRepo())
	c.Add(region.Region{ID: uuid.New(), Name: "Beta"})
	c.Add(region.Region{ID: uuid.New(), Name: "alpha"})
	c.Add(region.Region{ID: uuid.New(), Name: "Alpha"})

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Beta", all[2].Name)
	assert.ElementsMatch(t, []string{"alpha", "Alpha"}, []string{all[0].Name, all[1].Name})
}

func TestCatalog_FindFirstByNameUsesCatalogOrder(t *testing.T) {
	c := NewCatalog(discoverytest.NewRepo())
	first := region.Region{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Camp"}
	second := region.Region{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Camp"}
	c.Add(second)
	c.Add(first)

	got, ok := c.FindFirstByName("Camp")
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
}

func TestIndex_EntryForLoadsOnceAndCaches(t *testing.T) {
	repo := discoverytest.NewRepo()
	regions := seed(t, repo, "Camp")
	player := uuid.New()
	require.NoError(t, repo.RecordDiscovery(context.Background(), player, regions[0].ID))

	idx := NewIndex(repo)
	assert.False(t, idx.Cached(player))

	entry, err := idx.EntryFor(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, entry.Contains(regions[0].ID))

	_, err = idx.EntryFor(context.Background(), player)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.CallCount("discovered"))
	assert.True(t, idx.Cached(player))
}

func TestIndex_FailedLoadIsNotCached(t *testing.T) {
	repo := discoverytest.NewRepo()
	repo.DiscoveredErr = errors.New("timeout")
	idx := NewIndex(repo)
	player := uuid.New()

	_, err := idx.EntryFor(context.Background(), player)
	require.ErrorIs(t, err, ports.ErrStorage)
	assert.False(t, idx.Cached(player))

	repo.DiscoveredErr = nil
	_, err = idx.EntryFor(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, idx.Cached(player))
}

func TestIndex_MarkDiscoveredOnlyTouchesExistingEntries(t *testing.T) {
	idx := NewIndex(discoverytest.NewRepo())
	player := uuid.New()
	r := region.Region{ID: uuid.New(), Name: "Camp"}

	idx.MarkDiscovered(player, r)
	assert.False(t, idx.Cached(player))

	_, err := idx.EntryFor(context.Background(), player)
	require.NoError(t, err)
	idx.MarkDiscovered(player, r)

	entry, err := idx.EntryFor(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, entry.Contains(r.ID))
}

func TestIndex_EntryIsIndependentCopyOfCatalog(t *testing.T) {
	repo := discoverytest.NewRepo()
	regions := seed(t, repo, "Camp")
	player := uuid.New()
	require.NoError(t, repo.RecordDiscovery(context.Background(), player, regions[0].ID))

	state := NewState(repo, nil)
	require.NoError(t, state.Catalog.LoadAll(context.Background()))
	_, err := state.Index.EntryFor(context.Background(), player)
	require.NoError(t, err)

	state.Catalog.Add(regions[0].Renamed("Outpost"))

	entry, err := state.Index.EntryFor(context.Background(), player)
	require.NoError(t, err)
	_, ok := entry.FindByName("Camp")
	assert.True(t, ok, "cached entry must keep its own copy until invalidated")
}

func TestState_RefreshClearsIndexEvenWhenReloadFails(t *testing.T) {
	repo := discoverytest.NewRepo()
	metrics := discoverytest.NewMetrics()
	state := NewState(repo, metrics)
	player := uuid.New()
	_, err := state.Index.EntryFor(context.Background(), player)
	require.NoError(t, err)

	repo.AllErr = errors.New("db down")
	err = state.Refresh(context.Background(), "reload")

	require.ErrorIs(t, err, ports.ErrStorage)
	assert.Equal(t, 0, state.Index.Len())
	assert.Equal(t, 1, metrics.Invalidations["reload"])
}
