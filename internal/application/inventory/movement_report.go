package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

const (
	defaultMovementLimit = 100
	maxMovementLimit     = 1000
)

// MovementReportUseCase consultas del libro de movimientos y su reporte PDF.
type MovementReportUseCase struct {
	repo      repository.StockMovementRepository
	generator MovementReportGenerator
	now       func() time.Time
}

// NewMovementReportUseCase construye el caso de uso.
func NewMovementReportUseCase(repo repository.StockMovementRepository, generator MovementReportGenerator) *MovementReportUseCase {
	return &MovementReportUseCase{repo: repo, generator: generator, now: time.Now}
}

// List devuelve movimientos filtrados, más recientes primero.
func (uc *MovementReportUseCase) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	if err := normalizeFilter(&f); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, f)
}

// DownloadReport genera el PDF del libro con totales de entradas y salidas.
func (uc *MovementReportUseCase) DownloadReport(ctx context.Context, f repository.MovementFilter) ([]byte, string, error) {
	if err := normalizeFilter(&f); err != nil {
		return nil, "", err
	}
	movements, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: listar movimientos: %w", err)
	}
	report := MovementReport{
		Title:       "Libro de movimientos de stock",
		ProductID:   f.ProductID,
		From:        f.From,
		To:          f.To,
		GeneratedAt: uc.now(),
		Movements:   movements,
	}
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeIn:
			report.TotalIn += m.Quantity
		case entity.MovementTypeOut:
			report.TotalOut += m.Quantity
		}
	}
	report.TotalIn = production.RoundCurrency(report.TotalIn)
	report.TotalOut = production.RoundCurrency(report.TotalOut)

	pdf, err := uc.generator.GenerateMovementReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	name := "movimientos.pdf"
	if f.ProductID != "" {
		name = fmt.Sprintf("movimientos_%s.pdf", f.ProductID)
	}
	return pdf, name, nil
}

func normalizeFilter(f *repository.MovementFilter) error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	if f.Limit <= 0 {
		f.Limit = defaultMovementLimit
	}
	if f.Limit > maxMovementLimit {
		f.Limit = maxMovementLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}
