package gormrepo

import (
	"context"
	"errors"

	"roomservice/internal/domain"
	"roomservice/internal/repository"

	"gorm.io/gorm"
)

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) List(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemRepo) FindByID(ctx context.Context, id uint64) (*domain.Item, error) {
	var it domain.Item
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Count(&n).Error
	return n, err
}

func (r *itemRepo) SaveBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(items, 100).Error; err != nil {
			return err
		}
		for _, it := range items {
			if it.ID == 0 {
				return errors.New("batch insert failed to assign IDs")
			}
		}
		return nil
	})
}
