package dto

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// VariationProducedRequest cantidad producida de una variación, por clave estable.
type VariationProducedRequest struct {
	VariationKey string `json:"variationKey"`
	Produced     int    `json:"produced"`
}

// UpdateProductionRequest body de PUT /api/dashboards/:dashboardId/lots/:lotId/production.
type UpdateProductionRequest struct {
	Produced   *int                       `json:"produced,omitempty"`
	Variations []VariationProducedRequest `json:"variations,omitempty"`
	Status     string                     `json:"status,omitempty"`
}

// MovementSummaryResponse resumen de escrituras de inventario.
type MovementSummaryResponse struct {
	UpdatedProducts int `json:"updatedProducts"`
	Movements       int `json:"movements"`
	Skipped         int `json:"skipped"`
}

// UpdateProductionResponse lote actualizado más el resumen de movimientos.
type UpdateProductionResponse struct {
	Lot     *entity.Lot             `json:"lot"`
	Summary MovementSummaryResponse `json:"summary"`
}

// MigrationResultResponse respuesta del webhook de cambios de lote.
type MigrationResultResponse struct {
	Outcome                string                  `json:"outcome"`
	DestinationDashboardID string                  `json:"destinationDashboardId,omitempty"`
	DestinationLotID       string                  `json:"destinationLotId,omitempty"`
	Consumption            MovementSummaryResponse `json:"consumption"`
}
