package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"xalqbahosi/internal/domain"
)

// document is one record of a named collection. DocID may be empty for
// rows imported by other tools; ids are then derived from the payload.
type document struct {
	Seq        int64          `gorm:"column:seq;primaryKey;autoIncrement"`
	Collection string         `gorm:"column:collection;size:64;index;not null"`
	DocID      string         `gorm:"column:doc_id;size:128;index"`
	Data       map[string]any `gorm:"column:data;type:text;serializer:json"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
}

func (document) TableName() string { return "documents" }

// DocumentBackend is the remote document store: Firestore-shaped
// collections kept in one PostgreSQL table.
type DocumentBackend struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewDocumentBackend(db *gorm.DB, logger *slog.Logger) (*DocumentBackend, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", describePgError(err))
	}
	return &DocumentBackend{db: db, logger: logger, now: time.Now}, nil
}

func (b *DocumentBackend) Name() string { return "remote" }

func (b *DocumentBackend) ListReviews(ctx context.Context) ([]domain.Review, error) {
	docs, err := b.list(ctx, CollectionReviews, true)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		var r domain.Review
		if err := fromData(d.Data, &r, "id", "locationId"); err != nil {
			return nil, fmt.Errorf("review %d: %w", d.Seq, err)
		}
		if d.DocID != "" {
			r.ID = d.DocID
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = d.CreatedAt
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *DocumentBackend) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = b.now().UTC()
	}
	data, err := toData(r)
	if err != nil {
		return domain.Review{}, err
	}
	doc, err := b.add(ctx, CollectionReviews, data, r.CreatedAt)
	if err != nil {
		return domain.Review{}, err
	}
	r.ID = doc.DocID
	return r, nil
}

func (b *DocumentBackend) ListLocations(ctx context.Context) ([]domain.Location, error) {
	docs, err := b.list(ctx, CollectionLocations, false)
	if err != nil {
		return nil, err
	}
	locs, backfill := normalizeLocations(docs)
	for _, bf := range backfill {
		err := b.db.WithContext(ctx).
			Model(&document{}).
			Where("seq = ?", bf.seq).
			Update("doc_id", bf.id).Error
		if err != nil {
			b.logger.Warn("location id backfill failed", "seq", bf.seq, "id", bf.id, "error", err)
		}
	}
	return locs, nil
}

func (b *DocumentBackend) CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	doc, err := b.add(ctx, CollectionLocations, locationData(l), b.now().UTC())
	if err != nil {
		return domain.Location{}, err
	}
	l.ID = doc.DocID
	return l, nil
}

func (b *DocumentBackend) UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) (bool, error) {
	docs, err := b.list(ctx, CollectionLocations, false)
	if err != nil {
		return false, err
	}
	locs, _ := normalizeLocations(docs)

	for i, l := range locs {
		if l.ID != id {
			continue
		}
		doc := docs[i]
		doc.DocID = id
		doc.Data = applyPatchData(doc.Data, patch)
		if err := b.db.WithContext(ctx).Save(&doc).Error; err != nil {
			return false, fmt.Errorf("update location %s: %w", id, describePgError(err))
		}
		return true, nil
	}
	return false, nil
}

func (b *DocumentBackend) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	docs, err := b.list(ctx, CollectionAnnouncements, true)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Announcement, 0, len(docs))
	for _, d := range docs {
		var a domain.Announcement
		if err := fromData(d.Data, &a, "id"); err != nil {
			return nil, fmt.Errorf("announcement %d: %w", d.Seq, err)
		}
		if d.DocID != "" {
			a.ID = d.DocID
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = d.CreatedAt
		}
		a.Type = domain.ParseAnnouncementType(string(a.Type))
		out = append(out, a)
	}
	return out, nil
}

func (b *DocumentBackend) CreateAnnouncement(ctx context.Context, a domain.Announcement) (domain.Announcement, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = b.now().UTC()
	}
	data, err := toData(a)
	if err != nil {
		return domain.Announcement{}, err
	}
	doc, err := b.add(ctx, CollectionAnnouncements, data, a.CreatedAt)
	if err != nil {
		return domain.Announcement{}, err
	}
	a.ID = doc.DocID
	return a, nil
}

func (b *DocumentBackend) ListCategories(ctx context.Context) ([]domain.Category, error) {
	docs, err := b.list(ctx, CollectionCategories, false)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		var c domain.Category
		if err := fromData(d.Data, &c, "id"); err != nil {
			return nil, fmt.Errorf("category %d: %w", d.Seq, err)
		}
		if d.DocID != "" {
			c.ID = d.DocID
		}
		if c.ID == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// AddCategory stores one category document.
func (b *DocumentBackend) AddCategory(ctx context.Context, c domain.Category) error {
	return b.addCategory(b.db.WithContext(ctx), c)
}

func (b *DocumentBackend) addCategory(tx *gorm.DB, c domain.Category) error {
	data, err := toData(c)
	if err != nil {
		return err
	}
	doc := document{Collection: CollectionCategories, DocID: c.ID, Data: data, CreatedAt: b.now().UTC()}
	if err := tx.Create(&doc).Error; err != nil {
		return fmt.Errorf("add category %s: %w", c.ID, describePgError(err))
	}
	return nil
}

func (b *DocumentBackend) list(ctx context.Context, collection string, newestFirst bool) ([]document, error) {
	order := "seq ASC"
	if newestFirst {
		order = "created_at DESC, seq DESC"
	}
	var docs []document
	err := b.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(order).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, describePgError(err))
	}
	return docs, nil
}

func (b *DocumentBackend) add(ctx context.Context, collection string, data map[string]any, createdAt time.Time) (document, error) {
	doc := document{
		Collection: collection,
		DocID:      uuid.NewString(),
		Data:       data,
		CreatedAt:  createdAt,
	}
	if err := b.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return document{}, fmt.Errorf("add to %s: %w", collection, describePgError(err))
	}
	return doc, nil
}

// describePgError keeps the SQLSTATE visible in logs.
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w (sqlstate %s)", err, pgErr.Code)
	}
	return err
}
