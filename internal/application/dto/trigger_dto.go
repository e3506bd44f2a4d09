package dto

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// LotChangeRequest body de POST /api/triggers/lots/:dashboardId/:lotId.
// Before y After son los snapshots del documento antes y después de la escritura.
type LotChangeRequest struct {
	Before *entity.Lot `json:"before"`
	After  *entity.Lot `json:"after"`
}
