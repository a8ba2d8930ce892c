package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry representa un ingreso de mercancía (compra a proveedor) en una sede.
type StockEntry struct {
	ID              string
	Number          string
	SedeID          string
	ProviderID      string
	UserID          string
	ProviderInvoice string
	Total           decimal.Decimal
	Note            string
	Date            time.Time
	CreatedAt       time.Time
	Items           []StockEntryItem
}

// StockEntryItem línea de un ingreso.
type StockEntryItem struct {
	ID        string
	EntryID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
}
