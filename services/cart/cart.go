package cart

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/metrics"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/catalog"
)

// Repository serializes read-modify-write access to a single user's cart.
// Mutate loads the cart (a transient empty one if the user has none yet),
// runs fn under a per-user lock, and persists the resulting line set
// atomically. A cart that did not exist and gained no lines is not created,
// so carts come into being on first add only. Two Mutate calls for the same
// user never interleave; different users proceed in parallel.
type Repository interface {
	Mutate(ctx context.Context, userID string, fn func(c *models.Cart) error) error
}

// Line is a cart line enriched with the currently-resolved product summary.
type Line struct {
	ID          string          `json:"id"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	CustomText  string          `json:"custom_text,omitempty"`
	CustomImage string          `json:"custom_image,omitempty"`
	Product     catalog.Summary `json:"product"`
}

type AddInput struct {
	ProductID      uint
	Quantity       int
	Size           string
	Color          string
	CustomText     string
	CustomImageRef string
}

type Store struct {
	repo     Repository
	products catalog.Resolver
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewStore(repo Repository, products catalog.Resolver, log *zap.Logger, m *metrics.Metrics) *Store {
	return &Store{repo: repo, products: products, log: log, metrics: m}
}

// Get returns the cart enriched with product summaries. Lines whose product
// no longer resolves are dropped from storage, not just from the response,
// so a poisoned cart heals on first read and stays healed.
func (s *Store) Get(ctx context.Context, userID string) ([]Line, error) {
	lines := []Line{}
	err := s.repo.Mutate(ctx, userID, func(c *models.Cart) error {
		kept := c.Items[:0]
		for _, item := range c.Items {
			sum, err := s.products.Resolve(ctx, item.ProductID)
			if err != nil {
				if apperr.IsKind(err, apperr.KindNotFound) {
					s.log.Info("pruning cart line for deleted product",
						zap.String("user_id", userID),
						zap.String("line_id", item.ID),
						zap.Uint("product_id", item.ProductID))
					continue
				}
				return err
			}
			kept = append(kept, item)
			lines = append(lines, Line{
				ID:          item.ID,
				Quantity:    item.Quantity,
				Size:        item.Size,
				Color:       item.Color,
				CustomText:  item.CustomText,
				CustomImage: item.CustomImageRef,
				Product:     sum,
			})
		}
		c.Items = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Add appends a line, or merges into an existing line with the same
// (product, size, color) by summing quantities. The product must resolve at
// write time.
func (s *Store) Add(ctx context.Context, userID string, in AddInput) error {
	if in.Quantity < 1 {
		return apperr.New(apperr.KindBadRequest, "quantity must be at least 1")
	}
	sum, err := s.products.Resolve(ctx, in.ProductID)
	if err != nil {
		return err
	}

	err = s.repo.Mutate(ctx, userID, func(c *models.Cart) error {
		for i := range c.Items {
			if c.Items[i].SameVariant(in.ProductID, in.Size, in.Color) {
				c.Items[i].Quantity += in.Quantity
				return nil
			}
		}
		c.Items = append(c.Items, models.CartLine{
			ID:             uuid.NewString(),
			ProductID:      sum.ID,
			Quantity:       in.Quantity,
			Size:           in.Size,
			Color:          in.Color,
			CustomText:     in.CustomText,
			CustomImageRef: in.CustomImageRef,
			AddedAt:        time.Now(),
		})
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.CartOp("add")
	return nil
}

// UpdateQuantity sets a line's quantity, clamped to a floor of 1. Removal
// goes through Remove, never through a zero quantity. The itemID is the
// server-generated line id; a numeric product id is accepted as a fallback
// key for clients predating line ids.
func (s *Store) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	err := s.repo.Mutate(ctx, userID, func(c *models.Cart) error {
		if line := findLine(c, itemID); line != nil {
			line.Quantity = quantity
			return nil
		}
		return apperr.New(apperr.KindNotFound, "cart item not found")
	})
	if err != nil {
		return err
	}
	s.metrics.CartOp("update")
	return nil
}

// Remove deletes a line by id. Removing an id that is not present is a
// no-op, so client retries are always safe.
func (s *Store) Remove(ctx context.Context, userID, itemID string) error {
	err := s.repo.Mutate(ctx, userID, func(c *models.Cart) error {
		kept := c.Items[:0]
		for _, item := range c.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		c.Items = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.CartOp("remove")
	return nil
}

// Clear empties the cart. Checkout does not call this; clients clear the
// cart explicitly once an order is placed.
func (s *Store) Clear(ctx context.Context, userID string) error {
	err := s.repo.Mutate(ctx, userID, func(c *models.Cart) error {
		c.Items = nil
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.CartOp("clear")
	return nil
}

func findLine(c *models.Cart, itemID string) *models.CartLine {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	// Fallback for old clients that send a product id instead of a line id.
	if pid, err := strconv.ParseUint(itemID, 10, 32); err == nil {
		for i := range c.Items {
			if c.Items[i].ProductID == uint(pid) {
				return &c.Items[i]
			}
		}
	}
	return nil
}
