package backtest

import "math"

// tradingDaysPerYear is the conventional annualization factor.
const tradingDaysPerYear = 252

// Results is the full set of performance metrics derived from one backtest.
type Results struct {
	InitialValue     float64 `json:"initial_value"`
	FinalValue       float64 `json:"final_value"`
	TotalReturn      float64 `json:"total_return"`
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	TotalTrades      int     `json:"total_trades"`
	WinningTrades    int     `json:"winning_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	AvgWin           float64 `json:"avg_win"`
	AvgLoss          float64 `json:"avg_loss"`
	ProfitFactor     float64 `json:"profit_factor"`
	TotalCommission  float64 `json:"total_commission"`
}

// Metrics derives performance statistics from the recorded equity curve,
// returns and trade list. It is a pure read of engine state: calling it twice
// without intervening mutation yields identical results. Incomplete data
// (no trades, zero variance, no losers) degrades the dependent metric to 0
// instead of producing NaN or infinities.
func (e *Engine) Metrics() Results {
	finalValue := e.PortfolioValue()
	totalReturn := finalValue/e.cfg.InitialCapital - 1

	nDays := len(e.returns)

	// The observation count stands in for the trading-day count here; the
	// exponent guard keeps deeply negative returns out of complex territory.
	annualReturn := 0.0
	if totalReturn <= -1 {
		annualReturn = -1
	} else if nDays > 0 {
		annualReturn = math.Pow(1+totalReturn, tradingDaysPerYear/float64(nDays)) - 1
	}

	vol := sampleStd(e.returns)
	annualVolatility := vol * math.Sqrt(tradingDaysPerYear)

	sharpe := 0.0
	if nDays > 0 && vol > 0 {
		excess := mean(e.returns) - e.cfg.RiskFreeRate/tradingDaysPerYear
		sharpe = excess / vol * math.Sqrt(tradingDaysPerYear)
	}

	maxDrawdown := 0.0
	runningMax := math.Inf(-1)
	for _, equity := range e.equityCurve {
		if equity > runningMax {
			runningMax = equity
		}
		drawdown := (equity - runningMax) / runningMax
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	var winners, losers int
	var winSum, lossSum float64
	for _, t := range e.trades {
		if t.PnL > 0 {
			winners++
			winSum += t.PnL
		} else {
			losers++
			lossSum += t.PnL
		}
	}

	winRate, avgWin, avgLoss, profitFactor := 0.0, 0.0, 0.0, 0.0
	if len(e.trades) > 0 {
		winRate = float64(winners) / float64(len(e.trades))
	}
	if winners > 0 {
		avgWin = winSum / float64(winners)
	}
	if losers > 0 {
		avgLoss = lossSum / float64(losers)
	}
	if losers > 0 && lossSum != 0 {
		profitFactor = math.Abs(winSum / lossSum)
	}

	totalCommission := 0.0
	for _, o := range e.orders {
		if o.Status == OrderStatusFilled {
			totalCommission += o.Commission
		}
	}

	return Results{
		InitialValue:     e.cfg.InitialCapital,
		FinalValue:       finalValue,
		TotalReturn:      totalReturn,
		AnnualReturn:     annualReturn,
		AnnualVolatility: annualVolatility,
		SharpeRatio:      sharpe,
		MaxDrawdown:      maxDrawdown,
		TotalTrades:      len(e.trades),
		WinningTrades:    winners,
		LosingTrades:     losers,
		WinRate:          winRate,
		AvgWin:           avgWin,
		AvgLoss:          avgLoss,
		ProfitFactor:     profitFactor,
		TotalCommission:  totalCommission,
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the n-1 denominator standard deviation; 0 for fewer than two
// observations.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
