package models

import "time"

// User rows are provisioned by the external auth service; this API only
// reads them to attach a display-safe summary to admin order listings.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"index" json:"email"`
	CreatedAt time.Time `json:"-"`
}
