package catalog

import (
	"context"
	"errors"
	"testing"

	"waypoint/internal/app/discovery"
	"waypoint/internal/app/discovery/discoverytest"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo        *discoverytest.Repo
	state       *discovery.State
	broadcaster *discoverytest.Broadcaster
	uc          UseCase
}

func newFixture(t *testing.T, regions ...region.Region) fixture {
	t.Helper()
	repo := discoverytest.NewRepo()
	for _, r := range regions {
		repo.Store.SeedRegion(r)
	}
	state := discovery.NewState(repo, discoverytest.NewMetrics())
	require.NoError(t, state.Catalog.LoadAll(context.Background()))
	b := &discoverytest.Broadcaster{}
	return fixture{repo: repo, state: state, broadcaster: b, uc: UseCase{State: state, Broadcaster: b}}
}

func warmIndex(t *testing.T, f fixture, players ...uuid.UUID) {
	t.Helper()
	for _, p := range players {
		_, err := f.state.Index.EntryFor(context.Background(), p)
		require.NoError(t, err)
	}
}

func TestCreate_RejectsTeleportOutsideWithoutWrites(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), CreateRequest{
		Name: "X", WorldID: uuid.New(), X1: 0, Z1: 0, X2: 10, Z2: 10, TeleportX: 11, TeleportY: 0, TeleportZ: 5,
	})

	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, region.ErrTeleportOutside)
	assert.Equal(t, 0, f.repo.Writes())
	assert.Equal(t, 0, f.state.Catalog.Len())
	assert.Empty(t, f.broadcaster.Reasons)
}

func TestCreate_RejectsBoundsPastInt32WithoutWrites(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), CreateRequest{
		Name: "Far", WorldID: uuid.New(), X1: 0, Z1: 0, X2: region.MaxBound + 1, Z2: 10, TeleportX: 1, TeleportZ: 1,
	})

	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, region.ErrBoundOutOfRange)
	assert.Equal(t, 0, f.repo.Writes())
	assert.Equal(t, 0, f.state.Catalog.Len())
	assert.Empty(t, f.broadcaster.Reasons)
}

func TestCreate_NormalizesReversedBox(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), CreateRequest{
		Name: "X", WorldID: uuid.New(), X1: 10, Z1: 10, X2: 0, Z2: 0, TeleportX: 5, TeleportY: 0, TeleportZ: 5,
	})
	require.NoError(t, err)

	stored, err := f.repo.AllRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 0, stored[0].XMin)
	assert.Equal(t, 10, stored[0].XMax)
	assert.Equal(t, 0, stored[0].ZMin)
	assert.Equal(t, 10, stored[0].ZMax)
	assert.Equal(t, resp.Region.ID, stored[0].ID)
}

func TestCreate_AddsToCatalogWithoutTouchingIndex(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	warmIndex(t, f, player)
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	f.uc.NewID = func() uuid.UUID { return id }

	resp, err := f.uc.Create(context.Background(), CreateRequest{
		Name: "  Camp ", WorldID: uuid.New(), X2: 20, Z2: 20, TeleportX: 10, TeleportY: 64, TeleportZ: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, id, resp.Region.ID)
	assert.Equal(t, "Camp", resp.Region.Name)
	assert.Equal(t, 1, f.state.Catalog.Len())
	assert.True(t, f.state.Index.Cached(player))
	assert.Equal(t, []string{ReasonCreate}, f.broadcaster.Reasons)
}

func TestCreate_RejectsMissingNameOrWorld(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), CreateRequest{Name: " ", WorldID: uuid.New()})
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.uc.Create(context.Background(), CreateRequest{Name: "Camp"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 0, f.repo.Writes())
}

func TestCreate_StorageFailureLeavesCatalogUnchanged(t *testing.T) {
	f := newFixture(t)
	f.repo.CreateErr = errors.New("constraint violation")

	_, err := f.uc.Create(context.Background(), CreateRequest{
		Name: "Camp", WorldID: uuid.New(), X2: 20, Z2: 20, TeleportX: 10, TeleportZ: 10,
	})
	require.ErrorIs(t, err, ports.ErrStorage)
	assert.Equal(t, 0, f.state.Catalog.Len())
}

func TestRename_InvalidatesIndexAndReloads(t *testing.T) {
	camp := region.Region{ID: uuid.New(), Name: "Camp", XMax: 20, ZMax: 20, TeleportX: 1, TeleportY: 2, TeleportZ: 3}
	f := newFixture(t, camp)
	alice, bob := uuid.New(), uuid.New()
	require.NoError(t, f.repo.RecordDiscovery(context.Background(), alice, camp.ID))
	warmIndex(t, f, alice, bob)

	resp, err := f.uc.Rename(context.Background(), RenameRequest{From: "Camp", To: "Outpost"})
	require.NoError(t, err)
	assert.Equal(t, "Outpost", resp.Region.Name)

	assert.Equal(t, 0, f.state.Index.Len())
	assert.False(t, f.state.Index.Cached(alice))
	assert.False(t, f.state.Index.Cached(bob))

	entry, err := f.state.Index.EntryFor(context.Background(), alice)
	require.NoError(t, err)
	got, ok := entry.FindByName("Outpost")
	require.True(t, ok)
	assert.Equal(t, camp.TeleportX, got.TeleportX)
	assert.Equal(t, camp.TeleportZ, got.TeleportZ)
	_, ok = f.state.Catalog.FindFirstByName("Outpost")
	assert.True(t, ok)
	assert.Equal(t, []string{ReasonRename}, f.broadcaster.Reasons)
}

func TestRename_TrimsNewNameLikeCreate(t *testing.T) {
	f := newFixture(t, region.Region{ID: uuid.New(), Name: "Camp"})

	resp, err := f.uc.Rename(context.Background(), RenameRequest{From: "Camp", To: "  Outpost \t"})
	require.NoError(t, err)
	assert.Equal(t, "Outpost", resp.Region.Name)
	reloaded, ok := f.state.Catalog.FindFirstByName("Outpost")
	require.True(t, ok, "catalog is rebuilt from the stored name")
	assert.Equal(t, resp.Region.ID, reloaded.ID)

	_, err = f.uc.Rename(context.Background(), RenameRequest{From: "Outpost", To: "   "})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRename_IsCaseSensitiveAndReportsNotFound(t *testing.T) {
	f := newFixture(t, region.Region{ID: uuid.New(), Name: "Camp"})

	_, err := f.uc.Rename(context.Background(), RenameRequest{From: "camp", To: "Outpost"})
	require.ErrorIs(t, err, ports.ErrNotFound)
	assert.Equal(t, 0, f.repo.CallCount("update"))
}

func TestRename_PicksFirstInCatalogOrder(t *testing.T) {
	first := region.Region{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), Name: "Camp"}
	second := region.Region{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), Name: "Camp"}
	f := newFixture(t, second, first)

	resp, err := f.uc.Rename(context.Background(), RenameRequest{From: "Camp", To: "North Camp"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, resp.Region.ID)

	remaining, ok := f.state.Catalog.FindFirstByName("Camp")
	require.True(t, ok)
	assert.Equal(t, second.ID, remaining.ID)
}

func TestRename_StorageFailureKeepsCaches(t *testing.T) {
	f := newFixture(t, region.Region{ID: uuid.New(), Name: "Camp"})
	player := uuid.New()
	warmIndex(t, f, player)
	f.repo.UpdateErr = errors.New("io")

	_, err := f.uc.Rename(context.Background(), RenameRequest{From: "Camp", To: "Outpost"})
	require.ErrorIs(t, err, ports.ErrStorage)
	assert.True(t, f.state.Index.Cached(player))
	_, ok := f.state.Catalog.FindFirstByName("Camp")
	assert.True(t, ok)
}

func TestDelete_OrphansDiscoveriesAndInvalidates(t *testing.T) {
	camp := region.Region{ID: uuid.New(), Name: "Camp"}
	keep := region.Region{ID: uuid.New(), Name: "Keep"}
	f := newFixture(t, camp, keep)
	player := uuid.New()
	require.NoError(t, f.repo.RecordDiscovery(context.Background(), player, camp.ID))
	require.NoError(t, f.repo.RecordDiscovery(context.Background(), player, keep.ID))
	warmIndex(t, f, player)

	require.NoError(t, f.uc.Delete(context.Background(), DeleteRequest{ID: camp.ID}))

	assert.False(t, f.state.Index.Cached(player))
	entry, err := f.state.Index.EntryFor(context.Background(), player)
	require.NoError(t, err)
	assert.False(t, entry.Contains(camp.ID))
	assert.True(t, entry.Contains(keep.ID))
	assert.Equal(t, 1, f.state.Catalog.Len())
	assert.Equal(t, 1, f.repo.Store.DiscoveryCount(player, camp.ID), "discovery rows are orphaned, not deleted")
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	warmIndex(t, f, player)

	err := f.uc.Delete(context.Background(), DeleteRequest{ID: uuid.New()})
	require.ErrorIs(t, err, ports.ErrNotFound)
	assert.True(t, f.state.Index.Cached(player))
	assert.Empty(t, f.broadcaster.Reasons)
}

func TestReload_ReturnsCountAndClearsIndex(t *testing.T) {
	f := newFixture(t, region.Region{ID: uuid.New(), Name: "a"})
	player := uuid.New()
	warmIndex(t, f, player)
	f.repo.Store.SeedRegion(region.Region{ID: uuid.New(), Name: "b"})

	resp, err := f.uc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 0, f.state.Index.Len())
	assert.Equal(t, []string{ReasonReload}, f.broadcaster.Reasons)
}

func TestApplyRemoteChange_RefreshesWithoutBroadcast(t *testing.T) {
	f := newFixture(t)
	f.repo.Store.SeedRegion(region.Region{ID: uuid.New(), Name: "from-peer"})

	require.NoError(t, f.uc.ApplyRemoteChange(context.Background(), ReasonCreate))
	assert.Equal(t, 1, f.state.Catalog.Len())
	assert.Empty(t, f.broadcaster.Reasons)
}

func TestBroadcastFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t, region.Region{ID: uuid.New(), Name: "Camp"})
	f.broadcaster.Err = errors.New("nats down")

	_, err := f.uc.Rename(context.Background(), RenameRequest{From: "Camp", To: "Outpost"})
	require.NoError(t, err)
}

func TestList_ConsoleSeesCatalogPlayerSeesDiscoveries(t *testing.T) {
	camp := region.Region{ID: uuid.New(), Name: "Camp"}
	f := newFixture(t, camp, region.Region{ID: uuid.New(), Name: "Hidden"})
	player := uuid.New()
	require.NoError(t, f.repo.RecordDiscovery(context.Background(), player, camp.ID))

	console, err := f.uc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	assert.Len(t, console.Regions, 2)

	own, err := f.uc.List(context.Background(), ListRequest{PlayerID: player})
	require.NoError(t, err)
	require.Len(t, own.Regions, 1)
	assert.Equal(t, "Camp", own.Regions[0].Name)

	empty, err := f.uc.List(context.Background(), ListRequest{PlayerID: uuid.New()})
	require.NoError(t, err)
	assert.NotNil(t, empty.Regions)
	assert.Empty(t, empty.Regions)
}
