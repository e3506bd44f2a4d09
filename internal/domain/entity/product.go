package entity

// BOMEntry regla de consumo: cantidad de una variación de materia prima por pieza producida.
// Con DashboardIDs no vacío la regla solo aplica en esos dashboards.
type BOMEntry struct {
	StockProductID   string   `json:"stockProductId"`
	StockVariationID string   `json:"stockVariationId"`
	QuantityPerPiece Number   `json:"quantityPerPiece"`
	DashboardIDs     []string `json:"dashboardIds,omitempty"`
}

// AppliesTo informa si la regla está habilitada para el dashboard.
func (e BOMEntry) AppliesTo(dashboardID string) bool {
	if len(e.DashboardIDs) == 0 {
		return true
	}
	for _, id := range e.DashboardIDs {
		if id == dashboardID {
			return true
		}
	}
	return false
}

// ProductVariation variación de un producto del catálogo con BOM propio opcional.
type ProductVariation struct {
	ID    string     `json:"id"`
	Label string     `json:"label,omitempty"`
	BOM   []BOMEntry `json:"bom,omitempty"`
}

// Product producto del catálogo de un dashboard. BaseProductID agrupa la familia.
type Product struct {
	ID            string             `json:"id"`
	BaseProductID string             `json:"baseProductId,omitempty"`
	Name          string             `json:"name,omitempty"`
	BOM           []BOMEntry         `json:"bom,omitempty"`
	Variations    []ProductVariation `json:"variations,omitempty"`
}

// ProductCatalog documento de catálogo asociado a un dashboard.
type ProductCatalog struct {
	DashboardID string     `json:"dashboardId,omitempty"`
	Products    []*Product `json:"products"`
}
