package entity

import "time"

// StockVariation variación de materia prima con existencia actual.
// CurrentStock se redondea a 4 decimales en cada escritura.
type StockVariation struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	CurrentStock float64 `json:"currentStock"`
}

// StockProduct agregado de inventario; sus variaciones viven embebidas y se
// reemplazan completas en cada actualización.
type StockProduct struct {
	ID         string           `json:"id"`
	Name       string           `json:"name,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	Variations []StockVariation `json:"variations"`
	UpdatedAt  *time.Time       `json:"updatedAt,omitempty"`
}

// FindVariation devuelve el índice de la variación o -1.
func (p *StockProduct) FindVariation(id string) int {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return i
		}
	}
	return -1
}
