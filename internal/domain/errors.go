package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrSedeNotAssigned   = errors.New("la sede no está asignada al usuario")
	ErrInactive          = errors.New("recurso inactivo")
)

// ValidationError describe un campo inválido de un formulario.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors agrupa los errores de validación de una petición. Se compara con
// errors.Is contra ErrInvalidInput.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrInvalidInput.Error()
	}
	return v[0].Field + ": " + v[0].Message
}

// Is permite errors.Is(err, ErrInvalidInput).
func (v ValidationErrors) Is(target error) bool { return target == ErrInvalidInput }

// Add agrega un error de campo.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err devuelve nil si no hay errores.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// StockShortage detalla un producto sin existencia suficiente en una operación.
type StockShortage struct {
	ProductID string `json:"product_id"`
	SedeID    string `json:"sede_id"`
	Available string `json:"available"`
	Requested string `json:"requested"`
}

// InsufficientStockError es ErrInsufficientStock con el detalle de los productos faltantes.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string { return ErrInsufficientStock.Error() }

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
