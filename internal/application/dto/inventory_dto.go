package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/inventory/batches.
type CreateBatchRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	BatchNumber     string          `json:"batch_number" validate:"required,max=100"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	AdditionalCost  decimal.Decimal `json:"additional_cost"`
	SourceType      string          `json:"source_type" validate:"required,oneof=PURCHASE PRODUCTION ADJUSTMENT"`
	SourceReference string          `json:"source_reference" validate:"max=100"`
	InboundDate     *time.Time      `json:"inbound_date,omitempty"`
	Location        string          `json:"location" validate:"max=100"`
}

// PurchaseLineRequest línea de recepción de compra.
type PurchaseLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	BatchNumber string          `json:"batch_number" validate:"max=100"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Location    string          `json:"location" validate:"max=100"`
}

// PurchaseReceiptRequest body para POST /api/inventory/receipts/purchase.
type PurchaseReceiptRequest struct {
	Reference      string                `json:"reference" validate:"required,max=100"`
	Date           *time.Time            `json:"date,omitempty"`
	AdditionalCost decimal.Decimal       `json:"additional_cost"`
	SplitPolicy    string                `json:"split_policy" validate:"omitempty,oneof=VALUE QUANTITY"`
	Lines          []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ProductionReceiptRequest body para POST /api/inventory/receipts/production.
type ProductionReceiptRequest struct {
	Reference         string          `json:"reference" validate:"required,max=100"`
	FinishedProductID string          `json:"finished_product_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	BatchNumber       string          `json:"batch_number" validate:"max=100"`
	Location          string          `json:"location" validate:"max=100"`
	Date              *time.Time      `json:"date,omitempty"`
}

// ConsumeRequest body para POST /api/inventory/consumptions.
type ConsumeRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	SourceReference string          `json:"source_reference" validate:"required,max=100"`
}

// IncreaseAdjustmentRequest body para POST /api/inventory/adjustments/increase.
type IncreaseAdjustmentRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason" validate:"required,max=500"`
	Location  string          `json:"location" validate:"max=100"`
}

// DecreaseAdjustmentRequest body para POST /api/inventory/adjustments/decrease.
type DecreaseAdjustmentRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason" validate:"required,max=500"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	BatchNumber       string          `json:"batch_number"`
	InboundQuantity   decimal.Decimal `json:"inbound_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	SourceType        string          `json:"source_type"`
	SourceReference   string          `json:"source_reference"`
	InboundDate       time.Time       `json:"inbound_date"`
	Location          string          `json:"location,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID                         string          `json:"id"`
	BatchID                    string          `json:"batch_id"`
	ProductID                  string          `json:"product_id"`
	Type                       string          `json:"type"`
	Quantity                   decimal.Decimal `json:"quantity"`
	UnitCost                   decimal.Decimal `json:"unit_cost"`
	TotalCost                  decimal.Decimal `json:"total_cost"`
	SourceType                 string          `json:"source_type"`
	SourceReference            string          `json:"source_reference"`
	ResultingRemainingQuantity decimal.Decimal `json:"resulting_remaining_quantity"`
	Notes                      string          `json:"notes,omitempty"`
	CreatedAt                  time.Time       `json:"created_at"`
	CreatedBy                  string          `json:"created_by,omitempty"`
}

// BatchMovementsResponse historial de un lote con su conciliación.
type BatchMovementsResponse struct {
	Batch      BatchResponse      `json:"batch"`
	Movements  []MovementResponse `json:"movements"`
	Consistent bool               `json:"consistent"`
	Problems   []string           `json:"problems,omitempty"`
}

// RemainingResponse disponibilidad de un producto.
type RemainingResponse struct {
	ProductID string          `json:"product_id"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ConsumptionLineResponse lo tomado de un lote.
type ConsumptionLineResponse struct {
	BatchID       string          `json:"batch_id"`
	BatchNumber   string          `json:"batch_number"`
	QuantityTaken decimal.Decimal `json:"quantity_taken"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ConsumptionResponse resultado de un consumo o ajuste negativo.
type ConsumptionResponse struct {
	ProductID     string                    `json:"product_id"`
	Requested     decimal.Decimal           `json:"requested"`
	QuantityTaken decimal.Decimal           `json:"quantity_taken"`
	TotalCost     decimal.Decimal           `json:"total_cost"`
	Shortfall     decimal.Decimal           `json:"shortfall"`
	Lines         []ConsumptionLineResponse `json:"lines"`
}

// ProductionResponse resultado de una recepción de producción.
type ProductionResponse struct {
	Batch        *BatchResponse        `json:"batch,omitempty"`
	Consumptions []ConsumptionResponse `json:"consumptions"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	UnitCost     decimal.Decimal       `json:"unit_cost"`
}

// ShortfallResponse cuerpo 409 cuando el stock no alcanza.
type ShortfallResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	ProductID string          `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
