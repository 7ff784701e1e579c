package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xalqbahosi/internal/domain"
)

// localRecord holds one JSON-encoded sequence under a fixed logical name.
type localRecord struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (localRecord) TableName() string { return "local_records" }

// LocalBackend is the durable key-value fallback. Every call reads and
// writes whole records inside one transaction.
type LocalBackend struct {
	db   *gorm.DB
	seed []domain.Location
	now  func() time.Time
}

// NewLocalBackend migrates the record table. seed is what "locations"
// holds the first time it is read; it is persisted on that read so later
// reads return the same set.
func NewLocalBackend(db *gorm.DB, seed []domain.Location) (*LocalBackend, error) {
	if err := db.AutoMigrate(&localRecord{}); err != nil {
		return nil, fmt.Errorf("migrate local records: %w", err)
	}
	return &LocalBackend{db: db, seed: seed, now: time.Now}, nil
}

func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reviews, _, err = loadRecord[domain.Review](tx, CollectionReviews)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newestReviewsFirst(reviews), nil
}

func (b *LocalBackend) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = b.now().UTC()
	}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews, _, err := loadRecord[domain.Review](tx, CollectionReviews)
		if err != nil {
			return err
		}
		return storeRecord(tx, CollectionReviews, append(reviews, r), b.now())
	})
	if err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

func (b *LocalBackend) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var locs []domain.Location
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		locs, err = b.locationsOrSeed(tx)
		return err
	})
	return locs, err
}

func (b *LocalBackend) CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locs, err := b.locationsOrSeed(tx)
		if err != nil {
			return err
		}
		return storeRecord(tx, CollectionLocations, append(locs, l), b.now())
	})
	if err != nil {
		return domain.Location{}, err
	}
	return l, nil
}

func (b *LocalBackend) UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) (bool, error) {
	found := false
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locs, err := b.locationsOrSeed(tx)
		if err != nil {
			return err
		}
		for i := range locs {
			if locs[i].ID == id {
				locs[i] = patch.Apply(locs[i])
				found = true
				break
			}
		}
		if !found {
			return nil
		}
		return storeRecord(tx, CollectionLocations, locs, b.now())
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (b *LocalBackend) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	var items []domain.Announcement
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		items, _, err = loadRecord[domain.Announcement](tx, CollectionAnnouncements)
		return err
	})
	return items, err
}

// CreateAnnouncement prepends, so the stored sequence is already newest first.
func (b *LocalBackend) CreateAnnouncement(ctx context.Context, a domain.Announcement) (domain.Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = b.now().UTC()
	}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, _, err := loadRecord[domain.Announcement](tx, CollectionAnnouncements)
		if err != nil {
			return err
		}
		return storeRecord(tx, CollectionAnnouncements, append([]domain.Announcement{a}, items...), b.now())
	})
	if err != nil {
		return domain.Announcement{}, err
	}
	return a, nil
}

func (b *LocalBackend) ListCategories(_ context.Context) ([]domain.Category, error) {
	return domain.DefaultCategories(), nil
}

// Reset drops the reviews, locations and announcements records. The next
// locations read seeds the demo set again.
func (b *LocalBackend) Reset(ctx context.Context) error {
	err := b.db.WithContext(ctx).
		Where("name IN ?", []string{CollectionReviews, CollectionLocations, CollectionAnnouncements}).
		Delete(&localRecord{}).Error
	if err != nil {
		return fmt.Errorf("reset local records: %w", err)
	}
	return nil
}

func (b *LocalBackend) locationsOrSeed(tx *gorm.DB) ([]domain.Location, error) {
	locs, found, err := loadRecord[domain.Location](tx, CollectionLocations)
	if err != nil || found {
		return locs, err
	}
	seeded := append([]domain.Location{}, b.seed...)
	if err := storeRecord(tx, CollectionLocations, seeded, b.now()); err != nil {
		return nil, err
	}
	return seeded, nil
}

func loadRecord[T any](tx *gorm.DB, name string) ([]T, bool, error) {
	var rec localRecord
	err := tx.Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []T{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}
	items := []T{}
	if err := json.Unmarshal([]byte(rec.Value), &items); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, true, nil
}

func storeRecord[T any](tx *gorm.DB, name string, items []T, now time.Time) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	rec := localRecord{Name: name, Value: string(raw), UpdatedAt: now}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// newestReviewsFirst orders by creation time, later appends first on ties.
func newestReviewsFirst(in []domain.Review) []domain.Review {
	out := make([]domain.Review, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
