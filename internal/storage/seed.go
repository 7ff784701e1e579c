package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"xalqbahosi/internal/domain"
)

// SeedData is what Seed writes into empty collections.
type SeedData struct {
	Locations     []domain.Location
	Categories    []domain.Category
	Announcements []domain.Announcement
}

type SeedResult struct {
	Locations     int
	Categories    int
	Announcements int
}

// DemoSeed is the demo data set the Mini App ships with.
func DemoSeed(now time.Time) SeedData {
	anns := domain.DemoAnnouncements(now)
	for i := range anns {
		anns[i].Demo = false
	}
	return SeedData{
		Locations:     domain.DemoLocations(),
		Categories:    domain.DefaultCategories(),
		Announcements: anns,
	}
}

// Seed fills the locations, categories and announcements collections when
// they are empty. Collections that already hold documents are left alone,
// so running it twice is harmless.
func (b *DocumentBackend) Seed(ctx context.Context, data SeedData) (SeedResult, error) {
	var res SeedResult
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := b.now().UTC()

		empty, err := collectionEmpty(tx, CollectionLocations)
		if err != nil {
			return err
		}
		if empty {
			for _, l := range data.Locations {
				doc := document{Collection: CollectionLocations, DocID: l.ID, Data: locationData(l), CreatedAt: now}
				if err := tx.Create(&doc).Error; err != nil {
					return fmt.Errorf("seed location %s: %w", l.ID, describePgError(err))
				}
				res.Locations++
			}
		}

		empty, err = collectionEmpty(tx, CollectionCategories)
		if err != nil {
			return err
		}
		if empty {
			for _, c := range data.Categories {
				if err := b.addCategory(tx, c); err != nil {
					return err
				}
				res.Categories++
			}
		}

		empty, err = collectionEmpty(tx, CollectionAnnouncements)
		if err != nil {
			return err
		}
		if empty {
			// inserted oldest first so the newest-first listing keeps the given order
			for i := len(data.Announcements) - 1; i >= 0; i-- {
				if err := b.seedAnnouncement(tx, data.Announcements[i], now); err != nil {
					return err
				}
				res.Announcements++
			}
		}
		return nil
	})
	return res, err
}

func (b *DocumentBackend) seedAnnouncement(tx *gorm.DB, a domain.Announcement, now time.Time) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.Type = domain.ParseAnnouncementType(string(a.Type))
	payload, err := toData(a)
	if err != nil {
		return err
	}
	doc := document{Collection: CollectionAnnouncements, DocID: a.ID, Data: payload, CreatedAt: a.CreatedAt}
	if err := tx.Create(&doc).Error; err != nil {
		return fmt.Errorf("seed announcement %q: %w", a.Title, describePgError(err))
	}
	return nil
}

func collectionEmpty(tx *gorm.DB, collection string) (bool, error) {
	var n int64
	if err := tx.Model(&document{}).Where("collection = ?", collection).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count %s: %w", collection, describePgError(err))
	}
	return n == 0, nil
}
