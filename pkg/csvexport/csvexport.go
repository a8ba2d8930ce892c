// Package csvexport escribe listados filtrados del panel como CSV.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table es un listado listo para exportar.
type Table struct {
	Header []string
	Rows   [][]string
}

// Append agrega una fila.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Write escribe cabecera y filas. Las comillas y separadores embebidos los escapa encoding/csv.
func Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("escribir cabecera: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("fila %d: %d columnas, se esperaban %d", i+1, len(row), len(t.Header))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
