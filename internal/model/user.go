package model

import "time"

// Roles assigned at account creation. The Role column mirrors the Casbin
// grouping policy, which is the source of truth for permissions.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// User represents an account in the system.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"ID"`
	Username       string    `gorm:"not null" json:"Username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"Email"` // Mandatory and unique
	Phone          string    `gorm:"column:phone;uniqueIndex" json:"Phone"`
	EGN            string    `gorm:"column:egn;uniqueIndex" json:"EGN"`
	FirstName      string    `json:"FirstName"`
	LastName       string    `json:"LastName"`
	Password       string    `gorm:"not null" json:"-"` // Stored as hash, ignored in JSON response
	Role           string    `gorm:"default:'Customer'" json:"Role"`
	EmailConfirmed bool      `gorm:"default:false" json:"EmailConfirmed"`
	Version        int       `gorm:"default:1" json:"Version"` // Optimistic concurrency token
	CreatedAt      time.Time `json:"CreatedAt"`
	UpdatedAt      time.Time `json:"UpdatedAt"`
}
