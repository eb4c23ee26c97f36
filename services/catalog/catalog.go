package catalog

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/storage"
)

// Summary is the immutable price/name snapshot a product resolves to at
// read time. It is the only source of order-line snapshot data.
type Summary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

type Resolver interface {
	Resolve(ctx context.Context, productID uint) (Summary, error)
}

// Service resolves product references against the catalog, with an optional
// redis cache in front and singleflight collapsing concurrent misses.
type Service struct {
	db     *gorm.DB
	cache  Cache
	images storage.ImageStore
	log    *zap.Logger
	sfg    singleflight.Group
}

func NewService(db *gorm.DB, cache Cache, images storage.ImageStore, log *zap.Logger) *Service {
	return &Service{db: db, cache: cache, images: images, log: log}
}

func (s *Service) Resolve(ctx context.Context, productID uint) (Summary, error) {
	if s.cache != nil {
		sum, err := s.cache.Get(ctx, productID)
		if err == nil {
			return sum, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.Uint("product_id", productID), zap.Error(err))
		}
	}

	v, err, _ := s.sfg.Do(strconv.FormatUint(uint64(productID), 10), func() (interface{}, error) {
		var p models.Product
		if err := s.db.WithContext(ctx).First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Summary{}, apperr.Newf(apperr.KindNotFound, "product %d not found", productID)
			}
			return Summary{}, apperr.Wrap(apperr.KindInternal, "failed to load product", err)
		}
		sum := s.summarize(p)

		if s.cache != nil {
			go func() {
				if err := s.cache.Set(context.Background(), sum); err != nil {
					s.log.Warn("catalog cache set failed", zap.Uint("product_id", sum.ID), zap.Error(err))
				}
			}()
		}
		return sum, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

func (s *Service) Get(ctx context.Context, productID uint) (models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, apperr.Newf(apperr.KindNotFound, "product %d not found", productID)
		}
		return models.Product{}, apperr.Wrap(apperr.KindInternal, "failed to load product", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list products", err)
	}
	return products, nil
}

func (s *Service) Create(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create product", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, productID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, productID)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "product %d not found", productID)
	}
	s.Invalidate(ctx, productID)
	return nil
}

// Invalidate drops a product from the cache after catalog mutation.
func (s *Service) Invalidate(ctx context.Context, productID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productID); err != nil {
		s.log.Warn("catalog cache invalidate failed", zap.Uint("product_id", productID), zap.Error(err))
	}
}

func (s *Service) summarize(p models.Product) Summary {
	return Summary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: s.images.URL(p.ImageRef),
	}
}
