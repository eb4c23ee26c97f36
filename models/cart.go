package models

import "time"

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	Items     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine is one row of a cart. Its ID is server-generated and stable for
// the lifetime of the line; no two lines of a cart share the same
// (product, size, color) triple.
type CartLine struct {
	ID             string    `gorm:"primaryKey" json:"id"` // uuid
	CartID         uint      `gorm:"index" json:"-"`
	ProductID      uint      `json:"product_id"`
	Quantity       int       `json:"quantity"`
	Size           string    `json:"size"`
	Color          string    `json:"color"`
	CustomText     string    `json:"custom_text,omitempty"`
	CustomImageRef string    `json:"custom_image_ref,omitempty"`
	AddedAt        time.Time `json:"added_at"`
}

// SameVariant reports whether a line refers to the given product variant
// and therefore must be merged with it rather than duplicated.
func (l CartLine) SameVariant(productID uint, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}
