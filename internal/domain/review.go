package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer review attached to a product. Rating is 1-5.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	UserName  string    `json:"user_name" db:"user_name"`
	Title     string    `json:"title" db:"title"`
	Comment   string    `json:"comment" db:"comment"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
