// Package report renders the ledger as an XLSX workbook.
package report

import (
	"fmt"
	"time"

	"patrimony/internal/ledger"
	"patrimony/internal/logger"
	"patrimony/internal/models"

	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the overview sheet.
const SummarySheet = "Summary"

// scopeSheets lists the per-scope sheets in workbook order.
var scopeSheets = []struct {
	name  string
	scope models.Scope
}{
	{"Investments", models.ScopeInvestment},
	{"Crypto", models.ScopeCrypto},
	{"Stocks", models.ScopeStocks},
	{"Budget", models.ScopeBudget},
	{"Credit", models.ScopeCredit},
}

var holdingColumns = []string{
	"Name", "Account", "Category", "Owner", "Currency", "Invested", "Current value",
	"Profit", "Profit %", "Quantity", "Avg buy price", "PRU currency", "Live price", "Value",
}

// Filename is the name of a workbook generated at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("patrimony-%s.xlsx", now.Format("2006-01-02"))
}

// Generator builds workbooks.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Generate writes one sheet per scope plus a summary sheet.
func (g *Generator) Generate(hs []models.Holding, summary ledger.Summary, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Get().Errorw("failed to close workbook", "error", err)
		}
	}()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cccccc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if err := g.fillSummary(f, summary, generatedAt, header); err != nil {
		return nil, err
	}
	for _, s := range scopeSheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}
		if err := g.fillHoldings(f, s.name, ledger.Filter(hs, s.scope), header); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		logger.Get().Warnw("failed to delete default sheet", "error", err)
	}
	if idx, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) fillSummary(f *excelize.File, s ledger.Summary, generatedAt time.Time, header int) error {
	sheet := SummarySheet
	_ = f.SetCellStr(sheet, "A1", "Generated")
	_ = f.SetCellStr(sheet, "B1", generatedAt.Format(time.RFC3339))

	for i, title := range []string{"Scope", "Invested", "Current value", "Profit", "Profit %", "Current (display)"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellStr(sheet, cell, title)
	}
	if err := f.SetCellStyle(sheet, "A3", "F3", header); err != nil {
		return fmt.Errorf("styling summary header: %w", err)
	}

	rows := []struct {
		name string
		t    ledger.Totals
	}{
		{"Investments", s.Investment},
		{"Crypto", s.Crypto},
		{"Stocks", s.Stocks},
		{"Budget", s.Budget},
		{"Credit", s.Credit},
	}
	row := 4
	for _, r := range rows {
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), r.name)
		_ = f.SetCellFloat(sheet, fmt.Sprintf("B%d", row), r.t.Invested, 2, 64)
		_ = f.SetCellFloat(sheet, fmt.Sprintf("C%d", row), r.t.Current, 2, 64)
		_ = f.SetCellFloat(sheet, fmt.Sprintf("D%d", row), r.t.Profit, 2, 64)
		_ = f.SetCellFloat(sheet, fmt.Sprintf("E%d", row), r.t.ProfitPercent, 2, 64)
		_ = f.SetCellStr(sheet, fmt.Sprintf("F%d", row), FormatAmount(r.t.Current, string(models.CurrencyEUR)))
		row++
	}

	row++
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), "Budget flux")
	_ = f.SetCellFloat(sheet, fmt.Sprintf("B%d", row), s.BudgetFlux, 2, 64)
	row++
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), "Credit total")
	_ = f.SetCellFloat(sheet, fmt.Sprintf("B%d", row), s.CreditTotal, 2, 64)

	row += 2
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), "Category")
	_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", row), "Value")
	_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", row), "Weight %")
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), header); err != nil {
		return fmt.Errorf("styling allocation header: %w", err)
	}
	for _, c := range s.CategoryAllocation {
		row++
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), string(c.Category))
		_ = f.SetCellFloat(sheet, fmt.Sprintf("B%d", row), c.Value, 2, 64)
		_ = f.SetCellFloat(sheet, fmt.Sprintf("C%d", row), c.Weight, 2, 64)
	}
	return nil
}

func (g *Generator) fillHoldings(f *excelize.File, sheet string, hs []models.Holding, header int) error {
	for i, title := range holdingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellStr(sheet, cell, title)
	}
	last, _ := excelize.CoordinatesToCellName(len(holdingColumns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, h := range hs {
		row := i + 2
		m := ledger.LineMetrics([]models.Holding{h})[0]
		values := []interface{}{
			h.Name, h.Account, string(h.Category), h.Owner, string(h.Currency),
			h.AmountInvested, h.CurrentValue, m.Profit, m.ProfitPercent,
			optional(h.Quantity), optional(h.AvgBuyPrice), string(h.PRUCurrency), optional(h.LivePrice),
			FormatAmount(h.CurrentValue, string(h.Currency)),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}

// optional leaves the cell empty for a null value.
func optional(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
