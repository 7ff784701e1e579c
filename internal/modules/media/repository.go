package media

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *Upload) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository records uploads in db, migrating the table on first use.
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Upload{}); err != nil {
		return nil, err
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}
