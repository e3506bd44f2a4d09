package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ApplyOptions contexto del movimiento: quién lo hace, cuándo y a qué evento corresponde.
type ApplyOptions struct {
	UserID        string
	UserEmail     string
	Timestamp     time.Time // cero = ahora
	SourceEntryID string

	SkipStockUpdates    bool
	SkipMovementRecords bool
}

// MovementSummary resultado de aplicar un consumo sobre el lote de escrituras.
type MovementSummary struct {
	UpdatedProducts int
	Movements       int
	Skipped         int
}

// ApplyMovementsUseCase traduce un consumo neto en escrituras de stock y registros
// del libro de movimientos. Solo agrega escrituras al lote del caller; nunca hace Commit.
type ApplyMovementsUseCase struct {
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewApplyMovementsUseCase construye el caso de uso.
func NewApplyMovementsUseCase(log zerolog.Logger) *ApplyMovementsUseCase {
	return &ApplyMovementsUseCase{
		log:   log.With().Str("component", "stock_movements").Logger(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ApplyMovementsUseCase) WithClock(now func() time.Time) *ApplyMovementsUseCase {
	uc.now = now
	return uc
}

// Apply agrega al lote una actualización por producto de stock afectado (lista completa
// de variaciones, existencias redondeadas a 4 decimales) y un movimiento por cada
// cantidad neta distinta de cero. Positivo = Saída, negativo = Entrada.
//
// No hace nada si el consumo está vacío o si falta la identidad del usuario.
func (uc *ApplyMovementsUseCase) Apply(
	batch repository.StockWriter,
	consumption production.Consumption,
	stock []*entity.StockProduct,
	opts ApplyOptions,
) MovementSummary {
	var summary MovementSummary
	if len(consumption) == 0 || opts.UserID == "" {
		return summary
	}
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = uc.now()
	}

	byID := make(map[string]*entity.StockProduct, len(stock))
	for _, p := range stock {
		if p != nil {
			byID[p.ID] = p
		}
	}

	// Copias de trabajo por producto: varias claves pueden tocar el mismo documento.
	working := make(map[string][]entity.StockVariation)
	var touched []string

	for _, key := range consumption.Keys() {
		net := consumption[key]
		productID, variationID, ok := production.SplitConsumptionKey(key)
		if !ok {
			summary.Skipped++
			uc.log.Warn().Str("key", key).Msg("clave de consumo inválida")
			continue
		}
		product, ok := byID[productID]
		if !ok {
			summary.Skipped++
			uc.log.Warn().Str("stock_product_id", productID).Str("key", key).Msg("producto de stock inexistente, se omite")
			continue
		}
		idx := product.FindVariation(variationID)
		if idx < 0 {
			summary.Skipped++
			uc.log.Warn().Str("stock_product_id", productID).Str("stock_variation_id", variationID).Msg("variación de stock inexistente, se omite")
			continue
		}

		if !opts.SkipStockUpdates {
			vars, seen := working[productID]
			if !seen {
				vars = make([]entity.StockVariation, len(product.Variations))
				copy(vars, product.Variations)
				touched = append(touched, productID)
			}
			current := decimal.NewFromFloat(vars[idx].CurrentStock)
			vars[idx].CurrentStock = production.RoundDecimal(current.Sub(net)).InexactFloat64()
			working[productID] = vars
		}

		// El libro guarda 4 decimales; un neto que redondea a cero no genera movimiento.
		qty := production.RoundDecimal(net.Abs())
		if !opts.SkipMovementRecords && !qty.IsZero() {
			movType := entity.MovementTypeIn
			if net.IsPositive() {
				movType = entity.MovementTypeOut
			}
			batch.CreateStockMovement(&entity.StockMovement{
				ID:            uc.newID(),
				ProductID:     productID,
				VariationID:   variationID,
				Quantity:      qty.InexactFloat64(),
				Type:          movType,
				User:          opts.UserID,
				UserEmail:     opts.UserEmail,
				Timestamp:     ts,
				SourceEntryID: opts.SourceEntryID,
			})
			summary.Movements++
		}
	}

	for _, productID := range touched {
		batch.UpdateStockVariations(productID, working[productID], ts)
		summary.UpdatedProducts++
	}
	return summary
}
