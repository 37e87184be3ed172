package notify

// console.go — presentación del reporte en terminal.
//
// ESTA es la única capa que convierte fracciones a porcentajes. El resto
// del pipeline trabaja en 0..1 sin excepción.

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/soltrack/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const maxTradesShown = 15

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
// table=true imprime el reporte completo; false, el resumen de una línea.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el reporte en el modo configurado.
func (c *Console) Notify(_ context.Context, report domain.Report) error {
	if report.Notice != "" {
		fmt.Fprintf(c.out, "⚠ %s\n", report.Notice)
	}

	if len(report.Trades) == 0 {
		fmt.Fprintf(c.out, "[%s] %s: no trades found\n",
			report.GeneratedAt.Format("15:04:05"), shortWallet(report.Wallet))
		return nil
	}

	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(report domain.Report) {
	s := report.Summary
	fmt.Fprintf(c.out, "[%s] %s: %d trades | PnL $%.2f | win %.0f%% | dd %.0f%% | fees $%.4f\n",
		report.GeneratedAt.Format("15:04:05"),
		shortWallet(report.Wallet),
		s.TradeCount,
		s.TotalPnL,
		s.WinRate*100,
		s.MaxDrawdown*100,
		s.Fees.TotalFees,
	)
}

// printFull imprime el reporte completo: resumen, trades recientes,
// sesiones y narrativa.
func (c *Console) printFull(report domain.Report) {
	fmt.Fprintf(c.out, "\n=== %s — %d trades (run %s) ===\n",
		shortWallet(report.Wallet), report.Summary.TradeCount, shortRun(report.RunID))

	c.printSummary(report.Summary)
	c.printTrades(report.Trades)
	c.printSessions(report.Sessions)

	if report.Insight != "" {
		fmt.Fprintf(c.out, "\n--- Insight ---\n%s\n", report.Insight)
	}
	fmt.Fprintln(c.out)
}

// printSummary imprime la tabla de métricas.
func (c *Console) printSummary(s domain.MetricsSummary) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Total PnL", fmt.Sprintf("$%.2f", s.TotalPnL))
	table.Append("Win rate", fmt.Sprintf("%.1f%%", s.WinRate*100))
	table.Append("Max drawdown", fmt.Sprintf("%.1f%%", s.MaxDrawdown*100))
	table.Append("Fee impact", fmt.Sprintf("%.1f%%", s.FeeImpact*100))
	table.Append("Long/short", fmt.Sprintf("%.1f%%", s.LongShortRatio*100))
	table.Append("Avg duration", s.AvgTradeDuration.Round(time.Millisecond).String())
	table.Append("Largest gain", fmt.Sprintf("$%.2f", s.LargestGain))
	table.Append("Largest loss", fmt.Sprintf("$%.2f", s.LargestLoss))
	table.Append("Avg win / loss", fmt.Sprintf("$%.2f / $%.2f", s.AvgWin, s.AvgLoss))
	table.Append("Total volume", fmt.Sprintf("%.4f", s.TotalVolume))
	table.Append("Total fees", fmt.Sprintf("$%.4f", s.Fees.TotalFees))
	table.Render()
}

// printTrades imprime los trades más recientes.
func (c *Console) printTrades(trades []domain.Trade) {
	shown := trades
	if len(shown) > maxTradesShown {
		shown = shown[:maxTradesShown]
	}

	fmt.Fprintf(c.out, "\nLast %d trades:\n", len(shown))
	table := tablewriter.NewWriter(c.out)
	table.Header("When", "Symbol", "Action", "Size", "Entry", "Exit", "PnL", "Fee")
	for _, t := range shown {
		table.Append(
			t.EntryTime.Format("2006-01-02 15:04"),
			t.Symbol,
			t.Action,
			fmt.Sprintf("%.4f", t.Size),
			fmt.Sprintf("$%.4f", t.EntryPrice),
			fmt.Sprintf("$%.4f", t.ExitPrice),
			fmt.Sprintf("$%.2f", t.PnL),
			fmt.Sprintf("$%.4f", t.Fee),
		)
	}
	table.Render()
}

// printSessions imprime el desglose por sesión de trading.
func (c *Console) printSessions(sp domain.SessionPerformance) {
	fmt.Fprintln(c.out, "\nSessions (UTC):")
	table := tablewriter.NewWriter(c.out)
	table.Header("Session", "Trades", "PnL")
	table.Append("Asia 00-08", fmt.Sprintf("%d", sp.Asian.TradeCount), fmt.Sprintf("$%.2f", sp.Asian.PnL))
	table.Append("London 08-16", fmt.Sprintf("%d", sp.London.TradeCount), fmt.Sprintf("$%.2f", sp.London.PnL))
	table.Append("New York 16-24", fmt.Sprintf("%d", sp.NewYork.TradeCount), fmt.Sprintf("$%.2f", sp.NewYork.PnL))
	table.Render()
}

// shortRun acorta el run id al prefijo del UUID.
func shortRun(runID string) string {
	if len(runID) <= 8 {
		return runID
	}
	return runID[:8]
}

// shortWallet acorta la dirección para logs y headers.
func shortWallet(wallet string) string {
	if len(wallet) <= 12 {
		return wallet
	}
	return wallet[:6] + ".." + wallet[len(wallet)-4:]
}
