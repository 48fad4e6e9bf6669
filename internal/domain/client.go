package domain

import "time"

// Client represents a customer the freelancer or agency works with.
// Client records are owned by the hosted backend; the cache keeps a copy
// embedded in each project plus denormalized name/email/company fields.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
