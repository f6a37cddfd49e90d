package reporter

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/grid"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// Metrics summarizes the outcome of one backtest run.
type Metrics struct {
	Symbol         string
	TotalTicks     int
	TotalTrades    int
	Buys           int
	Sells          int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64
	RealizedProfit float64
	TotalFees      float64
	OpenPositions  int
	OpenExposure   float64 // quote capital still committed to open buys
	FinalPrice     float64
	StartTime      time.Time
	EndTime        time.Time
}

// CalculateMetrics derives the report figures from a bot's ledger after a
// replay has finished.
func CalculateMetrics(b *grid.Bot, totalTicks int, finalPrice float64, start, end time.Time) *Metrics {
	m := &Metrics{
		Symbol:     b.Config.Symbol,
		TotalTicks: totalTicks,
		FinalPrice: finalPrice,
		StartTime:  start,
		EndTime:    end,
	}

	for _, p := range b.Positions() {
		m.TotalTrades++
		m.TotalFees += p.Fee
		switch p.Side {
		case models.Buy:
			m.Buys++
			if !p.Closed {
				m.OpenPositions++
				m.OpenExposure += p.AmountQuote
			}
		case models.Sell:
			m.Sells++
			if p.Profit > 0 {
				m.WinningTrades++
			} else {
				m.LosingTrades++
			}
		}
	}

	if m.Sells > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.Sells) * 100
	}
	m.RealizedProfit = b.Profit()
	return m
}

// PrintReport renders the backtest summary as a table on stdout.
func PrintReport(m *Metrics, dataPath string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Backtest Report")

	t.AppendRows([]table.Row{
		{"Data file", dataPath},
		{"Symbol", m.Symbol},
		{"Period", fmt.Sprintf("%s - %s",
			m.StartTime.Format("2006-01-02 15:04"), m.EndTime.Format("2006-01-02 15:04"))},
		{"Ticks processed", m.TotalTicks},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Total trades", m.TotalTrades},
		{"Buys / Sells", fmt.Sprintf("%d / %d", m.Buys, m.Sells)},
		{"Winning round trips", m.WinningTrades},
		{"Losing round trips", m.LosingTrades},
		{"Win rate", fmt.Sprintf("%.2f%%", m.WinRate)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Realized profit", fmt.Sprintf("%.2f USDT", m.RealizedProfit)},
		{"Total fees paid", fmt.Sprintf("%.2f USDT", m.TotalFees)},
		{"Open positions", m.OpenPositions},
		{"Open exposure", fmt.Sprintf("%.2f USDT", m.OpenExposure)},
		{"Final price", fmt.Sprintf("%.2f", m.FinalPrice)},
	})

	t.Render()
}
