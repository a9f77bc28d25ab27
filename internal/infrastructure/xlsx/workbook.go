package xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// loadRows devuelve las filas de datos de un libro (sin la fila de encabezado).
// Archivo inexistente no es error: devuelve nil, como el sistema de referencia
// que crea el libro vacío en la primera escritura.
func loadRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrIO, filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrIO, filepath.Base(path), err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// saveRows escribe encabezado + filas en un libro nuevo y lo guarda en path,
// reemplazando el contenido anterior (el libro completo se reescribe en cada save).
func saveRows(path string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("hoja %s: %w", sheetName, err)
	}

	for i, h := range headers {
		cell := string(rune('A'+i)) + "1"
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("encabezado %s: %w", cell, err)
		}
	}
	for i, row := range rows {
		for j, v := range row {
			cell := string(rune('A'+j)) + fmt.Sprint(i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("celda %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: guardar %s: %v", domain.ErrIO, filepath.Base(path), err)
	}
	return nil
}

// cell devuelve la columna i de una fila, "" si la fila viene corta
// (excelize omite celdas vacías al final).
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// copyFile duplica src en dst (respaldo).
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
