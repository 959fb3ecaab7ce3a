// Package export builds the Excel (xlsx) exports of sales, purchases and charges.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"github.com/tunerp/backend/internal/domain/trade"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	moneyFormat = "#,##0.000"
	dateFormat  = "02/01/2006"
)

type columnKind int

const (
	textColumn columnKind = iota
	moneyColumn
)

type column struct {
	title string
	width float64
	kind  columnKind
}

// sheet accumulates rows of one worksheet
type sheet struct {
	name    string
	columns []column
	rows    [][]interface{}
}

func (s *sheet) add(row ...interface{}) {
	s.rows = append(s.rows, row)
}

var documentColumns = []column{
	{title: "Date", width: 12},
	{title: "N°", width: 14},
	{title: "", width: 28},
	{title: "Total HT", width: 14, kind: moneyColumn},
	{title: "TVA", width: 12, kind: moneyColumn},
	{title: "Total TTC", width: 14, kind: moneyColumn},
	{title: "Payé", width: 14, kind: moneyColumn},
	{title: "Reste", width: 14, kind: moneyColumn},
	{title: "Statut", width: 12},
}

func documentSheet(name, partyTitle string) *sheet {
	cols := make([]column, len(documentColumns))
	copy(cols, documentColumns)
	cols[2].title = partyTitle
	return &sheet{name: name, columns: cols}
}

func addDocumentRow(s *sheet, number, party string, date time.Time, d *trade.SettledDocument) {
	s.add(date.Format(dateFormat), number, party,
		money(d.TotalHT), money(d.TotalTVA), money(d.TotalTTC),
		money(d.AmountPaid), money(d.Remaining), string(d.Status))
}

// Sales builds the sales workbook
func Sales(sales []*trade.Sale) ([]byte, error) {
	s := documentSheet("Ventes", "Client")
	var totals trade.SettledDocument
	for _, sale := range sales {
		addDocumentRow(s, sale.Number(), sale.ClientName, sale.CreatedAt, &sale.SettledDocument)
		accumulate(&totals, &sale.SettledDocument)
	}
	addTotalsRow(s, &totals)
	return build(s)
}

// Purchases builds the purchases workbook
func Purchases(purchases []*trade.Purchase) ([]byte, error) {
	s := documentSheet("Achats", "Fournisseur")
	var totals trade.SettledDocument
	for _, p := range purchases {
		addDocumentRow(s, p.Number(), p.SupplierName, p.CreatedAt, &p.SettledDocument)
		accumulate(&totals, &p.SettledDocument)
	}
	addTotalsRow(s, &totals)
	return build(s)
}

// Charges builds the charges workbook
func Charges(charges []*finance.Charge) ([]byte, error) {
	s := &sheet{name: "Charges", columns: []column{
		{title: "Date", width: 12},
		{title: "Description", width: 36},
		{title: "Type", width: 14},
		{title: "Source", width: 20},
		{title: "Montant", width: 14, kind: moneyColumn},
		{title: "Notes", width: 30},
	}}
	total := decimal.Zero
	for _, c := range charges {
		s.add(c.Date.Format(dateFormat), c.Description, string(c.Type), c.Source, money(c.Amount), c.Notes)
		total = total.Add(c.Amount)
	}
	s.add("", "TOTAL", "", "", money(total), "")
	return build(s)
}

func accumulate(totals, d *trade.SettledDocument) {
	totals.TotalHT = totals.TotalHT.Add(d.TotalHT)
	totals.TotalTVA = totals.TotalTVA.Add(d.TotalTVA)
	totals.TotalTTC = totals.TotalTTC.Add(d.TotalTTC)
	totals.AmountPaid = totals.AmountPaid.Add(d.AmountPaid)
	totals.Remaining = totals.Remaining.Add(d.Remaining)
}

func addTotalsRow(s *sheet, t *trade.SettledDocument) {
	s.add("", "TOTAL", "", money(t.TotalHT), money(t.TotalTVA), money(t.TotalTTC), money(t.AmountPaid), money(t.Remaining), "")
}

func build(s *sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.name); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E40AF"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}
	format := moneyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return nil, fmt.Errorf("export: money style: %w", err)
	}

	header := make([]interface{}, len(s.columns))
	for i, c := range s.columns {
		header[i] = c.title
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(s.name, name, name, c.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(s.columns), 1)
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range s.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return nil, err
		}
	}

	if len(s.rows) > 0 {
		for i, c := range s.columns {
			if c.kind != moneyColumn {
				continue
			}
			top, _ := excelize.CoordinatesToCellName(i+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(i+1, len(s.rows)+1)
			if err := f.SetCellStyle(s.name, top, bottom, moneyStyle); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(3).InexactFloat64()
}

// Filename builds a dated download name such as ventes_2024-03-01_2024-03-31.xlsx
func Filename(prefix string, from, to time.Time) string {
	switch {
	case !from.IsZero() && !to.IsZero():
		return fmt.Sprintf("%s_%s_%s.xlsx", prefix, from.Format("2006-01-02"), to.Format("2006-01-02"))
	case !from.IsZero():
		return fmt.Sprintf("%s_depuis_%s.xlsx", prefix, from.Format("2006-01-02"))
	default:
		return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	}
}
