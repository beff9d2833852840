package gormrepo

import (
	"context"
	"os"
	"testing"

	"waypoint/internal/domain/region"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("WAYPOINT_DB_DSN")
	if dsn == "" {
		t.Skip("WAYPOINT_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenPostgres(context.Background(), requireDSN(t), nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := ApplyMigrations(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRegionRepo_LifecycleAndOrphans(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	repo := NewRegionRepo(db)
	player := uuid.New()
	w := uuid.New()

	camp := region.Region{ID: uuid.New(), Name: "it-Camp", WorldID: w, XMax: 20, ZMax: 20, TeleportX: 10, TeleportY: 64, TeleportZ: 10}
	keep := region.Region{ID: uuid.New(), Name: "it-keep", WorldID: w, XMax: 5, ZMax: 5}
	t.Cleanup(func() {
		_ = db.Exec("DELETE FROM regions WHERE id IN (?, ?)", camp.ID.String(), keep.ID.String()).Error
		_ = db.Exec("DELETE FROM discovered_regions WHERE player_id = ?", player.String()).Error
	})

	for _, r := range []region.Region{camp, keep} {
		if err := repo.CreateRegion(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.Name, err)
		}
	}
	if err := repo.RecordDiscovery(ctx, player, camp.ID); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.RecordDiscovery(ctx, player, camp.ID); err != nil {
		t.Fatalf("record duplicate: %v", err)
	}
	if err := repo.RecordDiscovery(ctx, player, keep.ID); err != nil {
		t.Fatalf("record keep: %v", err)
	}

	got, err := repo.RegionsDiscoveredBy(ctx, player)
	if err != nil {
		t.Fatalf("discovered: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct regions, got %d", len(got))
	}

	renamed := camp.Renamed("it-Outpost")
	if err := repo.UpdateRegion(ctx, renamed); err != nil {
		t.Fatalf("update: %v", err)
	}
	n, err := repo.DeleteRegion(ctx, keep.ID)
	if err != nil || n != 1 {
		t.Fatalf("delete: n=%d err=%v", n, err)
	}
	n, err = repo.DeleteRegion(ctx, keep.ID)
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}

	got, err = repo.RegionsDiscoveredBy(ctx, player)
	if err != nil {
		t.Fatalf("discovered after delete: %v", err)
	}
	if len(got) != 1 || got[0].Name != "it-Outpost" || got[0].TeleportY != 64 {
		t.Fatalf("unexpected discovered set %+v", got)
	}

	var orphans int64
	if err := db.Table("discovered_regions").Where("player_id = ? AND region_id = ?", player.String(), keep.ID.String()).Count(&orphans).Error; err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 1 {
		t.Fatalf("expected orphaned discovery row to remain, got %d", orphans)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openMigrated(t)
	if err := ApplyMigrations(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
