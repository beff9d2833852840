package gormrepo

import (
	"context"
	"fmt"
	"slices"

	"waypoint/internal/adapter/repo/gorm/model"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const regionOrder = "LOWER(name), name, id"

type RegionRepo struct {
	db *gorm.DB
}

func NewRegionRepo(db *gorm.DB) RegionRepo {
	return RegionRepo{db: db}
}

func (r RegionRepo) CreateRegion(ctx context.Context, reg region.Region) error {
	m, err := toModel(reg)
	if err != nil {
		return ports.StorageError("insert region", err)
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return ports.StorageError("insert region", err)
	}
	return nil
}

func (r RegionRepo) UpdateRegion(ctx context.Context, reg region.Region) error {
	m, err := toModel(reg)
	if err != nil {
		return ports.StorageError("update region", err)
	}
	err = r.db.WithContext(ctx).
		Model(&model.Region{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":       m.Name,
			"world_id":   m.WorldID,
			"x_min":      m.XMin,
			"z_min":      m.ZMin,
			"x_max":      m.XMax,
			"z_max":      m.ZMax,
			"teleport_x": m.TeleportX,
			"teleport_y": m.TeleportY,
			"teleport_z": m.TeleportZ,
			"creator_id": m.CreatorID,
		}).Error
	if err != nil {
		return ports.StorageError("update region", err)
	}
	return nil
}

func (r RegionRepo) DeleteRegion(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Region{})
	if res.Error != nil {
		return 0, ports.StorageError("delete region", res.Error)
	}
	return res.RowsAffected, nil
}

func (r RegionRepo) RecordDiscovery(ctx context.Context, playerID, regionID uuid.UUID) error {
	m := model.DiscoveredRegion{
		PlayerID: playerID.String(),
		RegionID: regionID.String(),
	}
	if err := r.db.WithContext(ctx).Omit("discovered_at").Create(&m).Error; err != nil {
		return ports.StorageError("insert discovery", err)
	}
	return nil
}

func (r RegionRepo) RegionsDiscoveredBy(ctx context.Context, playerID uuid.UUID) ([]region.Region, error) {
	discovered := r.db.Model(&model.DiscoveredRegion{}).
		Select("region_id").
		Where("player_id = ?", playerID.String())
	var rows []model.Region
	err := r.db.WithContext(ctx).
		Where("id IN (?)", discovered).
		Order(regionOrder).
		Find(&rows).Error
	if err != nil {
		return nil, ports.StorageError("load discovered regions", err)
	}
	return fromModels(rows)
}

func (r RegionRepo) AllRegions(ctx context.Context) ([]region.Region, error) {
	var rows []model.Region
	if err := r.db.WithContext(ctx).Order(regionOrder).Find(&rows).Error; err != nil {
		return nil, ports.StorageError("load regions", err)
	}
	return fromModels(rows)
}

func toModel(reg region.Region) (model.Region, error) {
	for _, b := range [...]int{reg.XMin, reg.ZMin, reg.XMax, reg.ZMax} {
		if b < region.MinBound || b > region.MaxBound {
			return model.Region{}, fmt.Errorf("region %s: %w: %d", reg.ID, region.ErrBoundOutOfRange, b)
		}
	}
	return model.Region{
		ID:        reg.ID.String(),
		Name:      reg.Name,
		WorldID:   reg.WorldID.String(),
		XMin:      int32(reg.XMin),
		ZMin:      int32(reg.ZMin),
		XMax:      int32(reg.XMax),
		ZMax:      int32(reg.ZMax),
		TeleportX: reg.TeleportX,
		TeleportY: reg.TeleportY,
		TeleportZ: reg.TeleportZ,
		CreatorID: reg.CreatorID.String(),
	}, nil
}

func fromModel(m model.Region) (region.Region, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return region.Region{}, fmt.Errorf("region id %q: %w", m.ID, err)
	}
	worldID, err := uuid.Parse(m.WorldID)
	if err != nil {
		return region.Region{}, fmt.Errorf("region %s world id %q: %w", m.ID, m.WorldID, err)
	}
	creatorID, err := uuid.Parse(m.CreatorID)
	if err != nil {
		return region.Region{}, fmt.Errorf("region %s creator id %q: %w", m.ID, m.CreatorID, err)
	}
	return region.Region{
		ID:        id,
		Name:      m.Name,
		WorldID:   worldID,
		XMin:      int(m.XMin),
		ZMin:      int(m.ZMin),
		XMax:      int(m.XMax),
		ZMax:      int(m.ZMax),
		TeleportX: m.TeleportX,
		TeleportY: m.TeleportY,
		TeleportZ: m.TeleportZ,
		CreatorID: creatorID,
	}, nil
}

// fromModels converts rows and re-sorts them with the engine's collation;
// SQL LOWER and Unicode case folding disagree on a few scripts.
func fromModels(rows []model.Region) ([]region.Region, error) {
	out := make([]region.Region, 0, len(rows))
	for _, m := range rows {
		reg, err := fromModel(m)
		if err != nil {
			return nil, ports.StorageError("decode region", err)
		}
		out = append(out, reg)
	}
	slices.SortFunc(out, region.Compare)
	return out, nil
}

var _ ports.RegionRepository = RegionRepo{}
