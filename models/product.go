package models

import "time"

// Product is the catalog record. ImageRef is a storage reference, not a URL;
// responses resolve it through the image store.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null" json:"price"`
	ImageRef     string    `json:"image_ref"`
	Category     string    `gorm:"index" json:"category"`
	Stock        int       `json:"stock"`
	SizeOptions  []string  `gorm:"serializer:json" json:"size_options"`
	ColorOptions []string  `gorm:"serializer:json" json:"color_options"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
