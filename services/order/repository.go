package order

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/models"
)

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create persists the order and its lines in one transaction, so a failed
// write never leaves a half-written order behind.
func (r *gormRepository) Create(ctx context.Context, o *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(o).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to persist order", err)
	}
	return nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Products").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

func (r *gormRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Products").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, orderID uint, decide func(models.OrderStatus) (models.OrderStatus, error)) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
			}
			return err
		}
		next, err := decide(o.OrderStatus)
		if err != nil {
			return err
		}
		o.OrderStatus = next
		return tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("order_status", next).Error
	})
	if err == nil {
		return &o, nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return nil, err
	}
	return nil, apperr.Wrap(apperr.KindInternal, "failed to update order status", err)
}
