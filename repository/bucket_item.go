package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tnqbao/gau-bucket-list/entity"
	"gorm.io/gorm"
)

// BucketItemRepository handles all database operations for the BucketItem entity
type BucketItemRepository struct {
	db *gorm.DB
}

func NewBucketItemRepository(db *gorm.DB) *BucketItemRepository {
	return &BucketItemRepository{
		db: db,
	}
}

func (r *BucketItemRepository) FindAll(ctx context.Context) ([]entity.BucketItem, error) {
	items := make([]entity.BucketItem, 0)
	err := r.db.WithContext(ctx).Order("id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket items: %w", err)
	}
	return items, nil
}

func (r *BucketItemRepository) FindByID(ctx context.Context, id uint64) (*entity.BucketItem, error) {
	var item entity.BucketItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get bucket item %d: %w", id, err)
	}
	return &item, nil
}

func (r *BucketItemRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.BucketItem{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bucket item %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *BucketItemRepository) Save(ctx context.Context, item *entity.BucketItem) (*entity.BucketItem, error) {
	if item == nil {
		return nil, errors.New("bucket item cannot be nil")
	}
	// gorm's Save inserts on a zero primary key and upserts otherwise
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to save bucket item: %w", err)
	}
	return item, nil
}

func (r *BucketItemRepository) DeleteByID(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&entity.BucketItem{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete bucket item %d: %w", id, err)
	}
	return nil
}
