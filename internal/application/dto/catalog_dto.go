package dto

import "time"

// RegisterProductRequest body para POST /api/products.
type RegisterProductRequest struct {
	Name string `json:"name" validate:"required"`
}

// RenameProductRequest body para PUT /api/products/{id}/name.
type RenameProductRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProductResponse representación HTTP de un producto del catálogo.
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse listado del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
