package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIn  = "Entrada"
	MovementTypeOut = "Saída"
)

// StockMovement registro inmutable del libro de inventario. Quantity siempre >= 0.
type StockMovement struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	VariationID   string    `json:"variationId"`
	Quantity      float64   `json:"quantity"`
	Type          string    `json:"type"`
	User          string    `json:"user"`
	UserEmail     string    `json:"userEmail"`
	Timestamp     time.Time `json:"timestamp"`
	SourceEntryID string    `json:"sourceEntryId,omitempty"`
}
