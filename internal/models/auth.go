package models

import "time"

// AdminUser is the operator profile returned by login and profile re-validation.
type AdminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest holds operator credentials. The platform identifies admins by phone.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,egphone"`
	Password string `json:"password" validate:"required"`
}
