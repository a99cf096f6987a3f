package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"quant-backtest-go/internal/marketdata"

	"go.uber.org/zap"
)

// Strategy is a pure signal generator. It is invoked once per simulated
// timestamp and must not look at bars beyond ts, must not mutate positions,
// and must not keep references to them across calls.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string

	// GenerateSignals returns the trades the strategy wants placed at ts.
	GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*Position, cash float64) []OrderRequest
}

// Config holds the engine's simulation parameters.
type Config struct {
	InitialCapital float64
	CommissionRate float64 // fraction of trade value
	SlippageRate   float64 // fraction of price, adverse to the trade direction
	RiskFreeRate   float64 // annual, used by the Sharpe ratio
}

// Engine is an event-driven historical market simulator. It owns all mutable
// simulation state; a single engine instance must not be shared between
// concurrent backtests, but independent instances share nothing.
type Engine struct {
	logger *zap.Logger
	cfg    Config

	cash        float64
	positions   map[string]*Position
	orders      []*Order
	trades      []Trade
	equityCurve []float64
	returns     []float64
	history     []Snapshot
	currentTime time.Time
}

// NewEngine creates a backtest engine. Invalid static configuration is the
// only thing that fails here; everything that can go wrong during a
// simulation is handled inside the run loop without aborting it.
func NewEngine(logger *zap.Logger, cfg Config) (*Engine, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", cfg.InitialCapital)
	}
	if cfg.CommissionRate < 0 {
		return nil, fmt.Errorf("commission rate must not be negative, got %f", cfg.CommissionRate)
	}
	if cfg.SlippageRate < 0 {
		return nil, fmt.Errorf("slippage rate must not be negative, got %f", cfg.SlippageRate)
	}
	e := &Engine{
		logger: logger,
		cfg:    cfg,
	}
	e.Reset()
	return e, nil
}

// Reset reinitializes all mutable simulation state, discarding any prior run.
func (e *Engine) Reset() {
	e.cash = e.cfg.InitialCapital
	e.positions = make(map[string]*Position)
	e.orders = nil
	e.trades = nil
	e.equityCurve = nil
	e.returns = nil
	e.history = nil
	e.currentTime = time.Time{}
}

// Cash returns the engine's available cash.
func (e *Engine) Cash() float64 { return e.cash }

// Positions returns the open positions keyed by symbol. Callers must treat
// the map as read-only.
func (e *Engine) Positions() map[string]*Position { return e.positions }

// Orders returns every order ever placed, in placement order.
func (e *Engine) Orders() []*Order { return e.orders }

// Trades returns every completed round-trip so far.
func (e *Engine) Trades() []Trade { return e.trades }

// EquityCurve returns the recorded portfolio values, one per timestamp.
func (e *Engine) EquityCurve() []float64 { return e.equityCurve }

// History returns one portfolio snapshot per simulated timestamp.
func (e *Engine) History() []Snapshot { return e.history }

// PortfolioValue is cash plus the marked value of every open position.
// Positions are summed in sorted symbol order so results are bit-identical
// across runs.
func (e *Engine) PortfolioValue() float64 {
	symbols := make([]string, 0, len(e.positions))
	for sym := range e.positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	value := e.cash
	for _, sym := range symbols {
		pos := e.positions[sym]
		value += pos.Quantity * pos.CurrentPrice
	}
	return value
}

// PlaceOrder validates a request and registers it as a PENDING order stamped
// with the engine's current time. Cash availability is checked at fill time,
// not here.
func (e *Engine) PlaceOrder(req OrderRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	order := newOrder(req, e.currentTime)
	e.orders = append(e.orders, order)
	return order, nil
}

// CancelOrder withdraws a PENDING order. Orders that already filled or were
// rejected are past cancelling; those calls return false.
func (e *Engine) CancelOrder(order *Order) bool {
	if order.Status != OrderStatusPending {
		return false
	}
	order.Status = OrderStatusCancelled
	return true
}

// ExecuteOrder attempts to fill one PENDING order against the supplied mark
// price. It returns true only on a genuine fill; an untriggered order simply
// stays PENDING, and an unaffordable BUY or an unbacked SELL is REJECTED.
func (e *Engine) ExecuteOrder(order *Order, currentPrice float64) bool {
	if order.Status != OrderStatusPending {
		return false
	}

	var executionPrice float64
	triggered := false

	switch order.Type {
	case OrderTypeMarket:
		triggered = true
		executionPrice = currentPrice
	case OrderTypeLimit:
		if order.Side == SideBuy && currentPrice <= order.Price {
			triggered = true
			executionPrice = order.Price
		} else if order.Side == SideSell && currentPrice >= order.Price {
			triggered = true
			executionPrice = order.Price
		}
	case OrderTypeStop:
		if order.Side == SideBuy && currentPrice >= order.StopPrice {
			triggered = true
			executionPrice = currentPrice
		} else if order.Side == SideSell && currentPrice <= order.StopPrice {
			triggered = true
			executionPrice = currentPrice
		}
	}

	if !triggered {
		return false
	}

	if order.Side == SideSell {
		pos, ok := e.positions[order.Symbol]
		if !ok {
			e.logger.Warn("No position to sell, rejecting order",
				zap.String("symbol", order.Symbol),
				zap.Float64("quantity", order.Quantity))
			order.Status = OrderStatusRejected
			return false
		}
		// Never let a sell exceed the held quantity; cap it instead of
		// driving the position negative.
		if order.Quantity > pos.Quantity {
			e.logger.Warn("Sell quantity exceeds held quantity, capping",
				zap.String("symbol", order.Symbol),
				zap.Float64("requested", order.Quantity),
				zap.Float64("held", pos.Quantity))
			order.Quantity = pos.Quantity
		}
	}

	// Slippage moves the price against the trade direction.
	if order.Side == SideBuy {
		executionPrice *= 1 + e.cfg.SlippageRate
	} else {
		executionPrice *= 1 - e.cfg.SlippageRate
	}

	commission := executionPrice * order.Quantity * e.cfg.CommissionRate

	if order.Side == SideBuy {
		totalCost := executionPrice*order.Quantity + commission
		if totalCost > e.cash {
			e.logger.Warn("Insufficient cash, rejecting order",
				zap.String("symbol", order.Symbol),
				zap.Float64("cost", totalCost),
				zap.Float64("cash", e.cash))
			order.Status = OrderStatusRejected
			return false
		}
	}

	order.FilledPrice = executionPrice
	order.Commission = commission
	order.Slippage = math.Abs(executionPrice - currentPrice)
	order.Status = OrderStatusFilled

	e.applyFill(order)
	return true
}

// applyFill updates cash, positions and the trade log after an order fills.
func (e *Engine) applyFill(order *Order) {
	if order.Side == SideBuy {
		if pos, ok := e.positions[order.Symbol]; ok {
			pos.addFill(order.Quantity, order.FilledPrice)
		} else {
			e.positions[order.Symbol] = &Position{
				Symbol:       order.Symbol,
				Quantity:     order.Quantity,
				EntryPrice:   order.FilledPrice,
				CurrentPrice: order.FilledPrice,
				EntryTime:    e.currentTime,
			}
		}
		e.cash -= order.Quantity*order.FilledPrice + order.Commission
		return
	}

	// SELL: position existence and quantity were checked before the fill.
	pos := e.positions[order.Symbol]

	pnl := (order.FilledPrice-pos.EntryPrice)*order.Quantity - order.Commission
	e.trades = append(e.trades, Trade{
		Symbol:     order.Symbol,
		EntryTime:  pos.EntryTime,
		ExitTime:   e.currentTime,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  order.FilledPrice,
		Quantity:   order.Quantity,
		PnL:        pnl,
		PnLPercent: (order.FilledPrice/pos.EntryPrice - 1) * 100,
		Commission: order.Commission,
		Side:       SideSell,
		Duration:   e.currentTime.Sub(pos.EntryTime),
	})

	pos.Quantity -= order.Quantity
	pos.RealizedPnL += pnl
	e.cash += order.Quantity*order.FilledPrice - order.Commission

	if pos.Quantity <= 0 {
		delete(e.positions, order.Symbol)
	}
}

// UpdatePositions marks every open position that has a quote in prices.
// Symbols without a quote keep their previous mark.
func (e *Engine) UpdatePositions(prices map[string]float64) {
	for symbol, pos := range e.positions {
		if price, ok := prices[symbol]; ok {
			pos.MarkToMarket(price)
		}
	}
}

// Run executes the full simulation loop over every timestamp in data, in
// ascending order, and returns the computed performance metrics. The loop
// always completes: untriggered orders, rejected fills and missing quotes are
// normal non-events. The only errors are setup-class problems — nil inputs,
// empty data, or a strategy returning a structurally invalid order request.
func (e *Engine) Run(strategy Strategy, data *marketdata.Dataset, symbols []string) (Results, error) {
	if strategy == nil {
		return Results{}, fmt.Errorf("no strategy supplied")
	}
	if data == nil || data.Len() == 0 {
		return Results{}, fmt.Errorf("no historical data supplied")
	}
	if len(symbols) == 0 {
		return Results{}, fmt.Errorf("no symbols supplied")
	}

	e.Reset()

	timestamps := data.Timestamps()
	e.logger.Info("Starting backtest",
		zap.String("strategy", strategy.Name()),
		zap.Strings("symbols", symbols),
		zap.Float64("initial_capital", e.cfg.InitialCapital),
		zap.Time("from", timestamps[0]),
		zap.Time("to", timestamps[len(timestamps)-1]),
		zap.Int("bars", len(timestamps)))

	for i, ts := range timestamps {
		e.currentTime = ts

		// Symbols lacking a quote at this bar are skipped for this step.
		currentPrices := make(map[string]float64, len(symbols))
		for _, symbol := range symbols {
			if price, ok := data.Close(symbol, ts); ok {
				currentPrices[symbol] = price
			}
		}

		e.UpdatePositions(currentPrices)

		// Attempt pending orders in placement order (FIFO).
		for _, order := range e.orders {
			if order.Status != OrderStatusPending {
				continue
			}
			if price, ok := currentPrices[order.Symbol]; ok {
				e.ExecuteOrder(order, price)
			}
		}

		for _, req := range strategy.GenerateSignals(data, ts, e.positions, e.cash) {
			if _, err := e.PlaceOrder(req); err != nil {
				return Results{}, fmt.Errorf("strategy %q produced an invalid order request: %w", strategy.Name(), err)
			}
		}

		portfolioValue := e.PortfolioValue()
		e.equityCurve = append(e.equityCurve, portfolioValue)
		if i > 0 {
			e.returns = append(e.returns, portfolioValue/e.equityCurve[i-1]-1)
		}
		e.history = append(e.history, Snapshot{
			Timestamp:      ts,
			Cash:           e.cash,
			PortfolioValue: portfolioValue,
			OpenPositions:  len(e.positions),
			TradeCount:     len(e.trades),
		})

		if (i+1)%50 == 0 {
			e.logger.Info("Backtest progress",
				zap.Int("bar", i+1),
				zap.Int("total", len(timestamps)),
				zap.Float64("portfolio_value", portfolioValue),
				zap.Int("trades", len(e.trades)))
		}
	}

	results := e.Metrics()

	e.logger.Info("Backtest complete",
		zap.Float64("final_value", results.FinalValue),
		zap.Float64("total_return", results.TotalReturn),
		zap.Float64("sharpe_ratio", results.SharpeRatio),
		zap.Float64("max_drawdown", results.MaxDrawdown),
		zap.Int("total_trades", results.TotalTrades),
		zap.Float64("win_rate", results.WinRate))

	return results, nil
}
