package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/amanmoon/my-stocks/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillQuotesSheet(f, report.Stocks); err != nil {
		return nil, "", err
	}
	if err := g.fillPortfolioSheet(f, report); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (g *XLSXGenerator) fillQuotesSheet(f *excelize.File, stocks []model.WatchStock) error {
	const sheetName = "Quotes"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "Market quotes")

	styleID, err := g.headerStyle(f, "#cfe2f3")
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A2", "ticker")
	_ = f.SetCellStr(sheetName, "B2", "name")
	_ = f.SetCellStr(sheetName, "C2", "exchange")
	_ = f.SetCellStr(sheetName, "D2", "price")
	_ = f.SetCellStr(sheetName, "E2", "prev close")

	for i, stock := range stocks {
		row := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), stock.Ticker)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), stock.Shortname)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), stock.Exchange)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), stock.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), stock.PreviousDayPrice.InexactFloat64())
	}

	return nil
}

func (g *XLSXGenerator) fillPortfolioSheet(f *excelize.File, report model.PortfolioReport) error {
	const sheetName = "Portfolio"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "F1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Holdings (P&L %s)", report.HoldingsSummary.Profit.StringFixed(2)))

	styleID, err := g.headerStyle(f, "#d9ead3")
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A2", "ticker")
	_ = f.SetCellStr(sheetName, "B2", "name")
	_ = f.SetCellStr(sheetName, "C2", "quantity")
	_ = f.SetCellStr(sheetName, "D2", "avg buy price")
	_ = f.SetCellStr(sheetName, "E2", "market price")
	_ = f.SetCellStr(sheetName, "F2", "p&l")

	row := 2
	for _, h := range report.Holdings {
		row++
		qty := int64(h.Quantity)
		profit := h.CurrentPrice.Sub(h.AvgBuyPrice).Mul(decimal.NewFromInt(qty))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), h.Ticker)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), h.Shortname)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("C%d", row), qty)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), h.AvgBuyPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), h.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), profit.InexactFloat64())
	}

	row += 3
	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row)); err != nil {
		return err
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Positions (P&L %s)", report.PositionsSummary.Profit.StringFixed(2)))

	styleID, err = g.headerStyle(f, "#f9cb9c")
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styleID); err != nil {
		return err
	}

	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "ticker")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), "name")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), "type")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", row), "quantity")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", row), "entry price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", row), "market price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), "p&l")

	for _, p := range report.Positions {
		row++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), p.Ticker)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), p.Shortname)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), p.Type.String())
		_ = f.SetCellInt(sheetName, fmt.Sprintf("D%d", row), int64(p.Quantity))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.EntryPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.Profit().InexactFloat64())
	}

	return nil
}
