package plant

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// record is the persisted row shape. Ids come from SQLite's AUTOINCREMENT,
// which never reuses a rowid, matching the never-reassigned id invariant.
type record struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Owner         string `gorm:"index"`
	Stage         string
	PlantedAt     time.Time
	LastWateredAt time.Time
	WaterLevel    int
	Alive         bool
	Active        bool
}

func (record) TableName() string { return "plants" }

type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(path string) (*GormRepo, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &GormRepo{db: db}, nil
}

func toRecord(p Plant) record {
	return record{
		ID:            p.ID,
		Owner:         p.Owner,
		Stage:         string(p.Stage),
		PlantedAt:     p.PlantedAt,
		LastWateredAt: p.LastWateredAt,
		WaterLevel:    p.WaterLevel,
		Alive:         p.Alive,
		Active:        p.Active,
	}
}

func fromRecord(rec record) Plant {
	return Plant{
		ID:            rec.ID,
		Owner:         rec.Owner,
		Stage:         Stage(rec.Stage),
		PlantedAt:     rec.PlantedAt,
		LastWateredAt: rec.LastWateredAt,
		WaterLevel:    rec.WaterLevel,
		Alive:         rec.Alive,
		Active:        rec.Active,
	}
}

func (r *GormRepo) Create(ctx context.Context, owner string, now time.Time) (Plant, error) {
	rec := toRecord(New(owner, now))
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Plant{}, err
	}
	return fromRecord(rec), nil
}

func (r *GormRepo) Get(ctx context.Context, id uint64) (Plant, bool, error) {
	var rec record
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Plant{}, false, nil
	}
	if err != nil {
		return Plant{}, false, err
	}
	return fromRecord(rec), true, nil
}

func (r *GormRepo) Update(ctx context.Context, p Plant) (Plant, error) {
	rec := toRecord(p)
	res := r.db.WithContext(ctx).Model(&record{ID: p.ID}).Select("*").Omit("id").Updates(rec)
	if res.Error != nil {
		return Plant{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Plant{}, ErrNotFound
	}
	return p, nil
}

func (r *GormRepo) List(ctx context.Context) ([]Plant, error) {
	var recs []record
	if err := r.db.WithContext(ctx).Order("id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Plant, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// OwnerPlantIDs returns ids in creation order. Ids are monotonic, so
// ordering by id reproduces the append-only owner index.
func (r *GormRepo) OwnerPlantIDs(ctx context.Context, owner string) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&record{}).
		Where("owner = ?", owner).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
