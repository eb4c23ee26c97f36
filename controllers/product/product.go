package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/catalog"
	"github.com/craftcart/commerce-api/storage"
)

// ProductResponse copies exactly the fields the API contract promises;
// nothing is spread from the stored record.
type ProductResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	ImageURL     string   `json:"image_url"`
	Category     string   `json:"category"`
	Stock        int      `json:"stock"`
	SizeOptions  []string `json:"size_options"`
	ColorOptions []string `json:"color_options"`
}

func toResponse(p models.Product, images storage.ImageStore) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ImageURL:     images.URL(p.ImageRef),
		Category:     p.Category,
		Stock:        p.Stock,
		SizeOptions:  p.SizeOptions,
		ColorOptions: p.ColorOptions,
	}
}

// GET /api/products
func GetProducts(svc *catalog.Service, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		out := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toResponse(p, images))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/products/:id
func GetProductByID(svc *catalog.Service, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			apperr.JSON(c, apperr.New(apperr.KindBadRequest, "invalid product id"))
			return
		}
		p, err := svc.Get(c.Request.Context(), uint(id))
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, toResponse(p, images))
	}
}

// POST /api/products  (admin, multipart with optional image file)
func CreateProduct(svc *catalog.Service, images storage.ImageStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name         string   `form:"name" binding:"required"`
			Description  string   `form:"description"`
			Price        float64  `form:"price" binding:"required,gt=0"`
			Category     string   `form:"category"`
			Stock        int      `form:"stock"`
			SizeOptions  []string `form:"size_options"`
			ColorOptions []string `form:"color_options"`
		}
		if err := c.ShouldBind(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}

		imageRef := ""
		if file, err := c.FormFile("image"); err == nil {
			src, err := file.Open()
			if err != nil {
				apperr.JSON(c, apperr.Wrap(apperr.KindInternal, "failed to read upload", err))
				return
			}
			defer src.Close()
			imageRef, err = images.Store(c.Request.Context(), file.Filename, src)
			if err != nil {
				log.Error("image store failed", zap.String("filename", file.Filename), zap.Error(err))
				apperr.JSON(c, apperr.Wrap(apperr.KindInternal, "failed to store image", err))
				return
			}
		}

		p := models.Product{
			Name:         in.Name,
			Description:  in.Description,
			Price:        in.Price,
			ImageRef:     imageRef,
			Category:     in.Category,
			Stock:        in.Stock,
			SizeOptions:  in.SizeOptions,
			ColorOptions: in.ColorOptions,
		}
		if err := svc.Create(c.Request.Context(), &p); err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusCreated, toResponse(p, images))
	}
}

// DELETE /api/products/:id  (admin)
func DeleteProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			apperr.JSON(c, apperr.New(apperr.KindBadRequest, "invalid product id"))
			return
		}
		if err := svc.Delete(c.Request.Context(), uint(id)); err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
