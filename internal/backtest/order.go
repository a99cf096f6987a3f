package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType determines how an order is matched against the market price.
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStop      OrderType = "STOP"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderRequest is a desired trade as produced by a strategy. It is validated
// before the engine turns it into an Order.
type OrderRequest struct {
	Symbol    string
	Side      Side
	Quantity  float64
	Type      OrderType
	Price     float64 // limit price, required for LIMIT and STOP_LIMIT
	StopPrice float64 // stop price, required for STOP and STOP_LIMIT
}

// Validate checks the structural invariants of a request. A failure here is a
// programming error in the strategy, not a runtime market condition.
func (r OrderRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("order request has no symbol")
	}
	if r.Side != SideBuy && r.Side != SideSell {
		return fmt.Errorf("order request for %s has invalid side %q", r.Symbol, r.Side)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("order request for %s has non-positive quantity %f", r.Symbol, r.Quantity)
	}
	switch r.Type {
	case OrderTypeMarket:
	case OrderTypeLimit:
		if r.Price <= 0 {
			return fmt.Errorf("limit order for %s requires a positive limit price", r.Symbol)
		}
	case OrderTypeStop:
		if r.StopPrice <= 0 {
			return fmt.Errorf("stop order for %s requires a positive stop price", r.Symbol)
		}
	case OrderTypeStopLimit:
		if r.Price <= 0 || r.StopPrice <= 0 {
			return fmt.Errorf("stop-limit order for %s requires positive limit and stop prices", r.Symbol)
		}
	default:
		return fmt.Errorf("order request for %s has unknown type %q", r.Symbol, r.Type)
	}
	return nil
}

// Order is a single trading instruction tracked by the engine. Once FILLED or
// REJECTED it is never mutated again.
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      OrderType
	Quantity  float64
	Price     float64
	StopPrice float64
	CreatedAt time.Time
	Status    OrderStatus

	// Set on fill.
	FilledPrice float64
	Commission  float64
	Slippage    float64
}

func newOrder(req OrderRequest, ts time.Time) *Order {
	return &Order{
		ID:        uuid.NewString(),
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Price:     req.Price,
		StopPrice: req.StopPrice,
		CreatedAt: ts,
		Status:    OrderStatusPending,
	}
}
