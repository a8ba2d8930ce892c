package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// Modos de importación cuando el código ya existe.
const (
	ImportModeSkip   = "skip"
	ImportModeUpdate = "update"
)

// importColumns columnas del CSV de productos (mismo orden que la exportación).
var importColumns = []string{"codigo", "nombre", "descripcion", "categoria_codigo", "precio_venta", "tasa_iva", "unidad", "stock_minimo"}

var requiredImportColumns = []string{"codigo", "nombre", "categoria_codigo", "precio_venta"}

// ErrInvalidCSV el archivo no tiene cabecera válida o no se puede leer.
var ErrInvalidCSV = fmt.Errorf("archivo CSV inválido: %w", domain.ErrInvalidInput)

type importRow struct {
	line int
	get  func(col string) string
}

// Import crea o actualiza productos desde un CSV. Los errores de fila no detienen la
// importación; se reportan por número de línea (la cabecera es la línea 1).
func (uc *ProductUseCase) Import(ctx context.Context, r io.Reader, mode string) (*dto.ImportResult, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != ImportModeUpdate {
		mode = ImportModeSkip
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera ilegible", ErrInvalidCSV)
	}
	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q", ErrInvalidCSV, col)
		}
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	categories := map[string]string{} // código -> id
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: line, Message: fmt.Sprintf("fila ilegible: %v", err)})
			continue
		}
		row := importRow{line: line, get: func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}}
		if row.get("codigo") == "" && row.get("nombre") == "" {
			continue // fila vacía
		}
		if rowErr := uc.importRow(ctx, row, mode, categories, result); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
		}
	}
	return result, nil
}

func (uc *ProductUseCase) importRow(ctx context.Context, row importRow, mode string, categories map[string]string, result *dto.ImportResult) *dto.ImportRowError {
	code := strings.ToUpper(row.get("codigo"))
	fail := func(msg string) *dto.ImportRowError {
		return &dto.ImportRowError{Row: row.line, Code: code, Message: msg}
	}

	price, err := parseDecimal(row.get("precio_venta"), decimal.Zero)
	if err != nil {
		return fail("precio_venta no es un número")
	}
	tax, err := parseDecimal(row.get("tasa_iva"), decimal.Zero)
	if err != nil {
		return fail("tasa_iva no es un número")
	}
	minStock, err := parseDecimal(row.get("stock_minimo"), decimal.Zero)
	if err != nil {
		return fail("stock_minimo no es un número")
	}

	catCode := strings.ToUpper(row.get("categoria_codigo"))
	categoryID, ok := categories[catCode]
	if !ok && catCode != "" {
		c, err := uc.categoryRepo.GetByCode(ctx, catCode)
		if err != nil {
			return fail(err.Error())
		}
		if c != nil {
			categoryID = c.ID
		}
		categories[catCode] = categoryID
	}
	if categoryID == "" {
		return fail(fmt.Sprintf("la categoría %q no existe", catCode))
	}

	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return fail(err.Error())
	}
	now := time.Now()
	unit := row.get("unidad")
	if unit == "" {
		unit = defaultUnit
	}

	if existing != nil {
		if mode == ImportModeSkip {
			result.Skipped++
			return nil
		}
		existing.Name = row.get("nombre")
		existing.Description = row.get("descripcion")
		existing.CategoryID = categoryID
		existing.Price = price
		existing.TaxRate = tax
		existing.Unit = unit
		existing.MinStock = minStock
		existing.UpdatedAt = now
		if err := uc.validateProduct(ctx, existing); err != nil {
			return fail(err.Error())
		}
		if err := uc.repo.Update(ctx, existing); err != nil {
			return fail(err.Error())
		}
		result.Updated++
		return nil
	}

	product := &entity.Product{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        row.get("nombre"),
		Description: row.get("descripcion"),
		CategoryID:  categoryID,
		Price:       price,
		Cost:        decimal.Zero,
		TaxRate:     tax,
		Unit:        unit,
		MinStock:    minStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.validateProduct(ctx, product); err != nil {
		return fail(err.Error())
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fail("código duplicado en el archivo")
		}
		return fail(err.Error())
	}
	result.Created++
	return nil
}

// parseDecimal acepta coma o punto decimal; vacío devuelve def.
func parseDecimal(s string, def decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return def, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
