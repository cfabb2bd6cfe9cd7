package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"roomservice/internal/domain"
	"roomservice/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("OrderItems.Item")
}

// Create inserts the order row and its lines in one transaction. Items are
// referenced by id only and never written.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}
		if len(order.OrderItems) == 0 {
			return nil
		}
		for i := range order.OrderItems {
			order.OrderItems[i].OrderID = order.ID
		}
		if err := tx.Omit("Item").Create(&order.OrderItems).Error; err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		return nil
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := withLines(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := withLines(r.db.WithContext(ctx)).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}
		return tx.Model(&domain.Order{}).Where("id = ?", id).Update("status", status).Error
	})
}

func (r *orderRepo) ReplaceLines(ctx context.Context, id uint64, lines []domain.OrderLine, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderLine{}).Error; err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		if len(lines) > 0 {
			fresh := make([]domain.OrderLine, len(lines))
			for i, l := range lines {
				fresh[i] = domain.OrderLine{OrderID: id, ItemID: l.ItemID, Quantity: l.Quantity}
			}
			if err := tx.Omit("Item").Create(&fresh).Error; err != nil {
				return fmt.Errorf("insert order lines: %w", err)
			}
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", id).Update("total_price", total).Error; err != nil {
			return fmt.Errorf("update total: %w", err)
		}
		return nil
	})
}

func (r *orderRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// lockOrder takes a row lock on the order so concurrent writers serialize.
func lockOrder(tx *gorm.DB, id uint64) error {
	var o domain.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
