package entity

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Product representa una materia prima del catálogo.
// ID es un entero asignado secuencialmente (max existente + 1, el primero es 1) y nunca cambia.
// Name se guarda normalizado en minúsculas; la unicidad es case-insensitive.
type Product struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName recorta espacios, aplica NFC y pasa a minúsculas.
// Es la forma canónica usada para guardar y comparar nombres: "Azúcar" y
// "azu´car" (descompuesto) colisionan como duplicados.
func NormalizeName(name string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
}
