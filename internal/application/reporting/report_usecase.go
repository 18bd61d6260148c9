package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-mrp/internal/domain"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
)

// ValuationLine valor del stock de un producto (suma de remaining * unitCost de sus lotes).
type ValuationLine struct {
	ProductID  string
	SKU        string
	Name       string
	Kind       string
	Quantity   decimal.Decimal
	Value      decimal.Decimal
	BatchCount int
}

// ValuationReport valoración FIFO del inventario a una fecha.
type ValuationReport struct {
	GeneratedAt time.Time
	Lines       []ValuationLine
	TotalValue  decimal.Decimal
}

// ValuationRenderer genera la representación del reporte de valoración (PDF).
type ValuationRenderer interface {
	RenderValuation(report *ValuationReport) ([]byte, error)
}

// LedgerExporter exporta movimientos del ledger (XLSX).
type LedgerExporter interface {
	ExportMovements(product *entity.Product, movements []*entity.InventoryMovement) ([]byte, error)
}

// ReportUseCase reportes de solo lectura sobre lotes y ledger.
type ReportUseCase struct {
	catalog   repository.ProductRepository
	batchRepo repository.BatchRepository
	movRepo   repository.InventoryMovementRepository
	renderer  ValuationRenderer
	exporter  LedgerExporter
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	catalog repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.InventoryMovementRepository,
	renderer ValuationRenderer,
	exporter LedgerExporter,
) *ReportUseCase {
	return &ReportUseCase{
		catalog:   catalog,
		batchRepo: batchRepo,
		movRepo:   movRepo,
		renderer:  renderer,
		exporter:  exporter,
	}
}

// maxExportRows límite de movimientos por exportación.
const maxExportRows = 10000

// Valuation agrega los lotes disponibles por producto, ordenado por SKU.
func (uc *ReportUseCase) Valuation(ctx context.Context) (*ValuationReport, error) {
	batches, err := uc.batchRepo.List(ctx, repository.BatchFilter{OnlyAvailable: true})
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	byProduct := make(map[string]*ValuationLine)
	for _, b := range batches {
		line, ok := byProduct[b.ProductID]
		if !ok {
			line = &ValuationLine{ProductID: b.ProductID, Quantity: decimal.Zero, Value: decimal.Zero}
			byProduct[b.ProductID] = line
		}
		line.Quantity = line.Quantity.Add(b.RemainingQuantity)
		line.Value = line.Value.Add(b.TotalCost())
		line.BatchCount++
	}

	report := &ValuationReport{GeneratedAt: time.Now(), TotalValue: decimal.Zero}
	for id, line := range byProduct {
		p, err := uc.catalog.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if p != nil {
			line.SKU, line.Name, line.Kind = p.SKU, p.Name, p.Kind
		}
		report.Lines = append(report.Lines, *line)
		report.TotalValue = report.TotalValue.Add(line.Value)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].SKU != report.Lines[j].SKU {
			return report.Lines[i].SKU < report.Lines[j].SKU
		}
		return report.Lines[i].ProductID < report.Lines[j].ProductID
	})
	return report, nil
}

// ValuationPDF genera el PDF de valoración.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context) ([]byte, string, error) {
	report, err := uc.Valuation(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.renderer.RenderValuation(report)
	if err != nil {
		return nil, "", fmt.Errorf("render valuation: %w", err)
	}
	return pdfBytes, fmt.Sprintf("valoracion-%s.pdf", report.GeneratedAt.Format("20060102")), nil
}

// MovementsXLSX exporta el ledger de un producto.
func (uc *ReportUseCase) MovementsXLSX(ctx context.Context, productID string, from, to *time.Time) ([]byte, string, error) {
	if productID == "" {
		return nil, "", domain.ErrInvalidInput
	}
	p, err := uc.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, "", fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	movs, err := uc.movRepo.ListByProduct(ctx, productID, from, to, maxExportRows, 0)
	if err != nil {
		return nil, "", fmt.Errorf("list movements: %w", err)
	}
	data, err := uc.exporter.ExportMovements(p, movs)
	if err != nil {
		return nil, "", fmt.Errorf("export movements: %w", err)
	}
	return data, fmt.Sprintf("movimientos-%s.xlsx", p.SKU), nil
}
