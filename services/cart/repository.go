package cart

import (
	"context"
	"errors"
	"time"

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

// Mutate runs fn inside a transaction holding a row lock on the user's cart,
// so concurrent mutations for the same user serialize at the database while
// other users' carts stay untouched. The line set fn leaves behind replaces
// the stored one wholesale, unless fn left it untouched; line ids are
// preserved because fn mutates lines in place.
func (r *gormRepository) Mutate(ctx context.Context, userID string, fn func(c *models.Cart) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		transient := false

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: userID}
			transient = true
		} else if err != nil {
			return err
		}

		if !transient {
			if err := tx.Where("cart_id = ?", cart.ID).
				Order("added_at ASC").
				Find(&cart.Items).Error; err != nil {
				return err
			}
		}

		before := make([]models.CartLine, len(cart.Items))
		copy(before, cart.Items)

		if err := fn(&cart); err != nil {
			return err
		}

		if transient {
			if len(cart.Items) == 0 {
				return nil // carts are created lazily, on first add
			}
			items := cart.Items
			cart.Items = nil
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
			cart.Items = items
		} else {
			if linesEqual(before, cart.Items) {
				return nil // read-only pass, nothing to rewrite
			}
			if err := tx.Where("cart_id = ?", cart.ID).
				Delete(&models.CartLine{}).Error; err != nil {
				return err
			}
		}

		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cart.ID).
			Update("updated_at", time.Now()).Error
	})
	if err == nil {
		return nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err // business failure raised inside fn, pass through
	}
	return apperr.Wrap(apperr.KindInternal, "cart storage failure", err)
}

// linesEqual reports whether two line sets match element for element, which
// is how a pure read is told apart from a mutation.
func linesEqual(a, b []models.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
