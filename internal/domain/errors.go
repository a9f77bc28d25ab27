package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrEmptyName         = errors.New("el nombre del producto está vacío")
	ErrDuplicateName     = errors.New("ya existe un producto con ese nombre")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidAmount     = errors.New("cantidad o costo inválido")
	ErrInvalidEntry      = errors.New("entrada del libro inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrIO                = errors.New("error de persistencia")
)
