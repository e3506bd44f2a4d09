package dto

import "time"

// StockMovementResponse registro del libro de movimientos.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	VariationID   string    `json:"variationId"`
	Quantity      float64   `json:"quantity"`
	Type          string    `json:"type"`
	User          string    `json:"user"`
	UserEmail     string    `json:"userEmail,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	SourceEntryID string    `json:"sourceEntryId,omitempty"`
}

// StockMovementListResponse página del libro de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
