package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/infra"
)

var ErrItemNotFound = errors.New("bucket item not found")

// BucketItemStore is the generic CRUD contract for bucket items.
type BucketItemStore interface {
	FindAll(ctx context.Context) ([]entity.BucketItem, error)
	// FindByID returns ErrItemNotFound when no row has the id.
	FindByID(ctx context.Context, id uint64) (*entity.BucketItem, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	// Save inserts when item.ID is zero and overwrites the row otherwise.
	Save(ctx context.Context, item *entity.BucketItem) (*entity.BucketItem, error)
	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id uint64) error
}

type Repository struct {
	BucketItemRepo BucketItemStore
}

func InitRepository(infra *infra.Infra) *Repository {
	if infra.Database == nil {
		return &Repository{
			BucketItemRepo: NewMemoryBucketItemStore(),
		}
	}
	if infra.Database.DB == nil {
		panic("database connection is nil")
	}
	return &Repository{
		BucketItemRepo: NewBucketItemRepository(infra.Database.DB),
	}
}
