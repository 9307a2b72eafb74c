package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/amanmoon/my-stocks/internal/model"
)

func WatchStocksResponse(stocks []model.WatchStock) string {
	var sb strings.Builder

	sb.WriteString("📈 Market quotes:\n\n")
	for _, stock := range stocks {
		change := stock.CurrentPrice.Sub(stock.PreviousDayPrice)
		arrow := "▲"
		if change.IsNegative() {
			arrow = "▼"
		}
		sb.WriteString(fmt.Sprintf("%s (%s) — %s %s %s\n",
			stock.Ticker, stock.Exchange, stock.CurrentPrice.StringFixed(2), arrow, change.Abs().StringFixed(2)))
	}

	return sb.String()
}

func HoldingsResponse(summary model.PortfolioSummary, holdings []model.Holding) string {
	var sb strings.Builder

	sb.WriteString("💼 Holdings\n")
	sb.WriteString(fmt.Sprintf("Invested: %s | Current: %s\n", summary.Invested.StringFixed(2), summary.Current.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("P&L: %s (%s%%)\n\n", summary.Profit.StringFixed(2), summary.ProfitPercent.StringFixed(2)))

	if len(holdings) == 0 {
		sb.WriteString("No holdings yet. Use /buy to get started.")
		return sb.String()
	}

	for _, h := range holdings {
		sb.WriteString(fmt.Sprintf("%s (%s)\n", h.Ticker, h.Shortname))
		sb.WriteString(fmt.Sprintf("   ▸ Qty: %d @ avg %s\n", h.Quantity, h.AvgBuyPrice.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("   ▸ Market: %s\n\n", h.CurrentPrice.StringFixed(2)))
	}

	return sb.String()
}

func PositionsResponse(summary model.PortfolioSummary, positions []model.Position) string {
	var sb strings.Builder

	sb.WriteString("⚡ Intraday positions\n")
	sb.WriteString(fmt.Sprintf("P&L: %s (%s%%)\n\n", summary.Profit.StringFixed(2), summary.ProfitPercent.StringFixed(2)))

	if len(positions) == 0 {
		sb.WriteString("No open positions. Use /buy or /short.")
		return sb.String()
	}

	for _, p := range positions {
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", p.Type, p.Ticker, p.Shortname))
		sb.WriteString(fmt.Sprintf("   ▸ Qty: %d @ entry %s\n", p.Quantity, p.EntryPrice.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("   ▸ Market: %s | P&L: %s\n\n", p.CurrentPrice.StringFixed(2), p.Profit().StringFixed(2)))
	}

	return sb.String()
}

func WatchlistResponse(list string, stocks []model.WatchStock) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("👀 %s:\n\n", list))
	if len(stocks) == 0 {
		sb.WriteString("empty — add a ticker with /watch")
		return sb.String()
	}

	for _, stock := range stocks {
		sb.WriteString(fmt.Sprintf("%s — %s\n", stock.Ticker, stock.CurrentPrice.StringFixed(2)))
	}

	return sb.String()
}

func FillResponse(action string, fill model.Fill) string {
	return fmt.Sprintf("%s %d x %s @ %s (%s, remaining %d)",
		action, fill.Quantity, fill.Ticker, fill.Price.StringFixed(2), fill.Bucket, fill.Remaining)
}

func AlertCreatedResponse(alert model.Alert) string {
	return fmt.Sprintf("🔔 Alert set: %s %s %s", alert.Ticker, alert.Direction, alert.TargetPrice.StringFixed(2))
}

func AlertsResponse(alerts []model.Alert) string {
	var sb strings.Builder

	sb.WriteString("🔔 Alerts:\n\n")
	if len(alerts) == 0 {
		sb.WriteString("no alerts set")
		return sb.String()
	}

	for _, a := range alerts {
		status := "pending"
		if a.Triggered {
			status = "triggered"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s — %s\n", a.Ticker, a.Direction, a.TargetPrice.StringFixed(2), status))
	}

	return sb.String()
}
