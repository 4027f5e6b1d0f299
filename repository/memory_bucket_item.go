package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tnqbao/gau-bucket-list/entity"
)

// MemoryBucketItemStore keeps items in process memory. Used with DB_DRIVER=memory and in tests.
type MemoryBucketItemStore struct {
	mu     sync.RWMutex
	items  map[uint64]entity.BucketItem
	nextID uint64
}

func NewMemoryBucketItemStore() *MemoryBucketItemStore {
	return &MemoryBucketItemStore{
		items: make(map[uint64]entity.BucketItem),
	}
}

func (s *MemoryBucketItemStore) FindAll(_ context.Context) ([]entity.BucketItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entity.BucketItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryBucketItemStore) FindByID(_ context.Context, id uint64) (*entity.BucketItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	found := copyItem(item)
	return &found, nil
}

func (s *MemoryBucketItemStore) ExistsByID(_ context.Context, id uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[id]
	return ok, nil
}

func (s *MemoryBucketItemStore) Save(_ context.Context, item *entity.BucketItem) (*entity.BucketItem, error) {
	if item == nil {
		return nil, errors.New("bucket item cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == 0 {
		s.nextID++
		item.ID = s.nextID
	} else if item.ID > s.nextID {
		s.nextID = item.ID
	}
	s.items[item.ID] = copyItem(*item)
	return item, nil
}

func (s *MemoryBucketItemStore) DeleteByID(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// copyItem detaches the string pointers so callers cannot mutate stored rows.
func copyItem(item entity.BucketItem) entity.BucketItem {
	if item.Title != nil {
		title := *item.Title
		item.Title = &title
	}
	if item.Description != nil {
		description := *item.Description
		item.Description = &description
	}
	return item
}
