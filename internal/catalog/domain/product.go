package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"-"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Available       bool            `json:"available"`
	PreparationTime int             `json:"preparation_time,omitempty"` // minutes
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
