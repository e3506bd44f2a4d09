package production

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// DetailVariation cantidad producida de una variación dentro de un detalle.
type DetailVariation struct {
	VariationID  string
	VariationKey string
	Label        string
	Produced     float64
}

// ProductionDetail resumen efímero de lo producido por un evento de lote.
// Produced puede ser negativo cuando el detalle representa una reversión.
type ProductionDetail struct {
	ProductID     string
	ProductBaseID string
	Produced      float64
	Variations    []DetailVariation
}

func (d ProductionDetail) hasQuantity() bool {
	if d.Produced != 0 {
		return true
	}
	for _, v := range d.Variations {
		if v.Produced != 0 {
			return true
		}
	}
	return false
}

// Consumption consumo neto por variación de materia prima, con clave
// "<stockProductId>::<stockVariationId>". Positivo = material que sale del inventario.
type Consumption map[string]decimal.Decimal

// ConsumptionKey arma la clave de una variación de materia prima.
func ConsumptionKey(stockProductID, stockVariationID string) string {
	return stockProductID + "::" + stockVariationID
}

// SplitConsumptionKey separa la clave en producto y variación de stock.
func SplitConsumptionKey(key string) (stockProductID, stockVariationID string, ok bool) {
	return strings.Cut(key, "::")
}

// Keys devuelve las claves ordenadas (orden estable de escritura).
func (c Consumption) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float devuelve la cantidad neta de una clave como flotante.
func (c Consumption) Float(key string) float64 {
	return c[key].InexactFloat64()
}

// BuildProductionDetails deriva los detalles de producción de un lote.
// Con variaciones de cantidad positiva (produced, si no target) emite un único
// detalle con esas variaciones; si no, usa produced/target del propio lote.
func BuildProductionDetails(lot *entity.Lot) []ProductionDetail {
	if lot == nil {
		return nil
	}
	var (
		variations []DetailVariation
		sum        float64
	)
	for i, v := range lot.Variations {
		qty := firstPositive(NormalizeQuantity(v.Produced.Value()), NormalizeQuantity(v.Target.Value()))
		if qty <= 0 {
			continue
		}
		variations = append(variations, DetailVariation{
			VariationID:  strings.TrimSpace(v.VariationID),
			VariationKey: BuildVariationKey(v, i),
			Label:        v.Label,
			Produced:     float64(qty),
		})
		sum += float64(qty)
	}
	if len(variations) > 0 {
		if sum <= 0 {
			return nil
		}
		return []ProductionDetail{{
			ProductID:     lot.ProductID,
			ProductBaseID: lot.ProductBaseID,
			Produced:      sum,
			Variations:    variations,
		}}
	}

	qty := firstPositive(NormalizeQuantity(lot.Produced.Value()), NormalizeQuantity(lot.Target.Value()))
	if qty <= 0 {
		return nil
	}
	return []ProductionDetail{{
		ProductID:     lot.ProductID,
		ProductBaseID: lot.ProductBaseID,
		Produced:      float64(qty),
	}}
}

// BuildMovementDetails combina "deshacer lo anterior" (signo -1) y "aplicar lo nuevo"
// (signo +1) en una sola lista de deltas. Los detalles sin cantidad se descartan.
func BuildMovementDetails(original, updated []ProductionDetail) []ProductionDetail {
	out := make([]ProductionDetail, 0, len(original)+len(updated))
	appendSigned := func(details []ProductionDetail, sign float64) {
		for _, d := range details {
			s := ProductionDetail{
				ProductID:     d.ProductID,
				ProductBaseID: d.ProductBaseID,
				Produced:      d.Produced * sign,
			}
			if len(d.Variations) > 0 {
				s.Variations = make([]DetailVariation, len(d.Variations))
				for i, v := range d.Variations {
					v.Produced *= sign
					s.Variations[i] = v
				}
			}
			if s.hasQuantity() {
				out = append(out, s)
			}
		}
	}
	appendSigned(original, -1)
	appendSigned(updated, 1)
	return out
}

// ApplyConsumption calcula el consumo neto de materia prima para los detalles
// contra el catálogo, en el contexto del dashboard activo.
//
// Por detalle, el consumo por variación y el consumo por el total del detalle son
// excluyentes: si alguna variación aplicó BOM, el Produced del detalle se ignora.
func ApplyConsumption(details []ProductionDetail, catalog *Catalog, dashboardID string) Consumption {
	result := Consumption{}
	for _, d := range details {
		product := catalog.Resolve(d.ProductID, d.ProductBaseID)
		if product == nil {
			continue
		}

		variationApplied := false
		var variationSum float64
		for _, v := range d.Variations {
			if v.Produced == 0 {
				continue
			}
			variationSum += v.Produced
			bom := product.BOM
			if pv := resolveVariation(product, v); pv != nil && len(pv.BOM) > 0 {
				bom = pv.BOM
			}
			if len(bom) == 0 {
				continue
			}
			result.accumulate(bom, v.Produced, dashboardID)
			variationApplied = true
		}
		if variationApplied {
			continue
		}

		produced := d.Produced
		if produced == 0 {
			produced = variationSum
		}
		if produced == 0 {
			continue
		}
		result.accumulate(product.BOM, produced, dashboardID)
	}
	for k, v := range result {
		if v.IsZero() {
			delete(result, k)
		}
	}
	return result
}

func (c Consumption) accumulate(bom []entity.BOMEntry, produced float64, dashboardID string) {
	qty := decimal.NewFromFloat(produced)
	for _, entry := range bom {
		if !entry.AppliesTo(dashboardID) {
			continue
		}
		perPiece, ok := NormalizeSignedQuantity(entry.QuantityPerPiece.Value())
		if !ok || perPiece == 0 {
			continue
		}
		if entry.StockProductID == "" || entry.StockVariationID == "" {
			continue
		}
		key := ConsumptionKey(entry.StockProductID, entry.StockVariationID)
		c[key] = c[key].Add(qty.Mul(decimal.NewFromFloat(perPiece)))
	}
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
