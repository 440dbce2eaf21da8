package product

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Image       *string   `json:"image,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewProductInput struct {
	Name        string
	Description *string
	Price       float64
	Image       *string
	Category    *string
	Stock       int
	Rating      float64
	Reviews     int
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Category    *string
	Stock       *int
	Rating      *float64
	Reviews     *int
}

type ListOptions struct {
	Category *string
	Search   *string
	Sort     string
}
