package model

import "time"

// Car represents a rentable car listing.
type Car struct {
	ID          uint      `gorm:"primaryKey" json:"ID"`
	Brand       string    `gorm:"index;not null" json:"Brand"`
	Model       string    `gorm:"not null" json:"Model"`
	Year        *int      `json:"Year"` // nil means not yet set
	Seats       int       `gorm:"default:0" json:"Seats"`
	Info        string    `json:"Info"`
	PricePerDay float64   `gorm:"default:0" json:"PricePerDay"`
	CreatedAt   time.Time `json:"CreatedAt"`
	UpdatedAt   time.Time `json:"UpdatedAt"`
}
