package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/trade"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const defaultPrimaryColor = "#1e40af"

// Party is the client or supplier block of a document
type Party struct {
	Label   string
	Name    string
	Phone   string
	Email   string
	Address string
}

// Line is one printed document line
type Line struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TVA       decimal.Decimal
	TotalHT   decimal.Decimal
	TotalTTC  decimal.Decimal
}

// Payment is one printed installment
type Payment struct {
	Date   time.Time
	Amount decimal.Decimal
	Method string
	Note   string
}

// Document is the view model bound to the invoice template
type Document struct {
	Title        string
	Number       string
	Date         time.Time
	Company      *identity.Company
	PrimaryColor string
	Party        Party
	Lines        []Line
	TotalHT      decimal.Decimal
	TotalTVA     decimal.Decimal
	TotalTTC     decimal.Decimal
	Paid         decimal.Decimal
	Remaining    decimal.Decimal
	Status       trade.PaymentStatus
	Payments     []Payment
	Notes        string
}

// InvoicePrinter renders sales and purchases to PDF
type InvoicePrinter struct {
	renderer HTMLRenderer
	tmpl     *template.Template
}

// NewInvoicePrinter parses the document template
func NewInvoicePrinter(renderer HTMLRenderer) *InvoicePrinter {
	return &InvoicePrinter{
		renderer: renderer,
		tmpl:     template.Must(template.New("document").Funcs(funcMap()).Parse(documentTemplate)),
	}
}

// SaleInvoice renders the invoice (facture) of a sale
func (p *InvoicePrinter) SaleInvoice(ctx context.Context, sale *trade.Sale, company *identity.Company, client *partner.Client) ([]byte, error) {
	party := Party{Label: "Client", Name: sale.ClientName}
	if client != nil {
		party = Party{Label: "Client", Name: client.Name, Phone: client.Phone, Email: client.Email, Address: client.Address}
	}
	doc := newDocument("Facture", sale.Number(), sale.CreatedAt, company, party, &sale.SettledDocument)
	return p.render(ctx, doc)
}

// PurchaseOrder renders the purchase voucher (bon d'achat) of a purchase
func (p *InvoicePrinter) PurchaseOrder(ctx context.Context, purchase *trade.Purchase, company *identity.Company, supplier *partner.Supplier) ([]byte, error) {
	party := Party{Label: "Fournisseur", Name: purchase.SupplierName}
	if supplier != nil {
		party = Party{Label: "Fournisseur", Name: supplier.Name, Phone: supplier.Phone, Email: supplier.Email, Address: supplier.Address}
	}
	doc := newDocument("Bon d'achat", purchase.Number(), purchase.CreatedAt, company, party, &purchase.SettledDocument)
	return p.render(ctx, doc)
}

// HTML renders doc without converting it to PDF
func (p *InvoicePrinter) HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("printing: execute template: %w", err)
	}
	return buf.String(), nil
}

func (p *InvoicePrinter) render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := p.HTML(doc)
	if err != nil {
		return nil, err
	}
	return p.renderer.RenderPDF(ctx, html)
}

func newDocument(title, number string, date time.Time, company *identity.Company, party Party, d *trade.SettledDocument) Document {
	doc := Document{
		Title:        title,
		Number:       number,
		Date:         date,
		Company:      company,
		PrimaryColor: defaultPrimaryColor,
		Party:        party,
		TotalHT:      d.TotalHT,
		TotalTVA:     d.TotalTVA,
		TotalTTC:     d.TotalTTC,
		Paid:         d.AmountPaid,
		Remaining:    d.Remaining,
		Status:       d.Status,
		Notes:        d.Notes,
	}
	if company != nil && company.PrimaryColor != "" {
		doc.PrimaryColor = company.PrimaryColor
	}
	for _, item := range d.Items {
		doc.Lines = append(doc.Lines, Line{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TVA:       item.TVA,
			TotalHT:   item.TotalHT,
			TotalTTC:  item.TotalTTC,
		})
	}
	for _, inst := range d.Installments {
		doc.Payments = append(doc.Payments, Payment{Date: inst.Date, Amount: inst.Amount, Method: inst.Method, Note: inst.Note})
	}
	return doc
}

var frenchPrinter = message.NewPrinter(language.French)

// FormatTND formats an amount with three decimals in French notation, e.g. 12,500 TND
func FormatTND(d decimal.Decimal) string {
	return frenchPrinter.Sprint(number.Decimal(d.Round(3).InexactFloat64(), number.Scale(3))) + " TND"
}

func formatQuantity(d decimal.Decimal) string {
	return frenchPrinter.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

var statusLabels = map[trade.PaymentStatus]string{
	trade.PaymentStatusPending: "En attente",
	trade.PaymentStatusPartial: "Partiellement payé",
	trade.PaymentStatusPaid:    "Payé",
}

func statusLabel(s trade.PaymentStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func funcMap() template.FuncMap {
	title := cases.Title(language.French)
	return template.FuncMap{
		"tnd":      FormatTND,
		"qty":      formatQuantity,
		"percent":  func(d decimal.Decimal) string { return d.String() + " %" },
		"date":     func(t time.Time) string { return t.Format("02/01/2006") },
		"title":    title.String,
		"status":   statusLabel,
		"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
		"color":    func(s string) template.CSS { return template.CSS(sanitizeColor(s)) },
	}
}

func sanitizeColor(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 || !strings.HasPrefix(s, "#") {
		return defaultPrimaryColor
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return defaultPrimaryColor
		}
	}
	return s
}

const documentTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Number}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 12px; color: #1f2937; }
header { display: flex; justify-content: space-between; border-bottom: 3px solid {{color .PrimaryColor}}; padding-bottom: 12px; }
h1 { color: {{color .PrimaryColor}}; margin: 0; font-size: 22px; }
.company img { max-height: 60px; }
.party { margin: 18px 0; padding: 10px; background: #f3f4f6; }
table { width: 100%; border-collapse: collapse; }
th { background: {{color .PrimaryColor}}; color: #fff; text-align: left; padding: 6px; }
td { border-bottom: 1px solid #e5e7eb; padding: 6px; }
.num { text-align: right; }
.totals { width: 45%; margin-left: auto; margin-top: 16px; }
.totals td { border: none; }
.grand { font-weight: bold; font-size: 14px; }
footer { margin-top: 30px; font-size: 10px; color: #6b7280; text-align: center; }
</style>
</head>
<body>
<header>
  <div class="company">
    {{with .Company}}
    {{if .LogoURL}}<img src="{{.LogoURL}}" alt="logo">{{end}}
    <div><strong>{{.Name}}</strong></div>
    {{if .Address}}<div>{{.Address}}{{if .City}}, {{.City}}{{end}}</div>{{end}}
    {{if .Phone}}<div>Tél : {{.Phone}}</div>{{end}}
    {{if .Email}}<div>{{.Email}}</div>{{end}}
    {{if .MatriculeFiscal}}<div>MF : {{.MatriculeFiscal}}</div>{{end}}
    {{if .RNE}}<div>RNE : {{.RNE}}</div>{{end}}
    {{end}}
  </div>
  <div>
    <h1>{{.Title}}</h1>
    <div>N° {{.Number}}</div>
    <div>Date : {{date .Date}}</div>
    <div>Statut : {{status .Status}}</div>
  </div>
</header>

<div class="party">
  <div><strong>{{.Party.Label}} :</strong> {{title .Party.Name}}</div>
  {{if .Party.Phone}}<div>Tél : {{.Party.Phone}}</div>{{end}}
  {{if .Party.Email}}<div>{{.Party.Email}}</div>{{end}}
  {{if .Party.Address}}<div>{{.Party.Address}}</div>{{end}}
</div>

<table>
  <thead>
    <tr><th>Désignation</th><th class="num">Qté</th><th class="num">P.U. HT</th><th class="num">TVA</th><th class="num">Total HT</th><th class="num">Total TTC</th></tr>
  </thead>
  <tbody>
  {{range .Lines}}
    <tr>
      <td>{{.Name}}</td>
      <td class="num">{{qty .Quantity}}</td>
      <td class="num">{{tnd .UnitPrice}}</td>
      <td class="num">{{percent .TVA}}</td>
      <td class="num">{{tnd .TotalHT}}</td>
      <td class="num">{{tnd .TotalTTC}}</td>
    </tr>
  {{end}}
  </tbody>
</table>

<table class="totals">
  <tr><td>Total HT</td><td class="num">{{tnd .TotalHT}}</td></tr>
  <tr><td>Total TVA</td><td class="num">{{tnd .TotalTVA}}</td></tr>
  <tr class="grand"><td>Total TTC</td><td class="num">{{tnd .TotalTTC}}</td></tr>
  <tr><td>Montant payé</td><td class="num">{{tnd .Paid}}</td></tr>
  {{if positive .Remaining}}<tr class="grand"><td>Reste à payer</td><td class="num">{{tnd .Remaining}}</td></tr>{{end}}
</table>

{{if .Payments}}
<h3>Règlements</h3>
<table>
  <thead><tr><th>Date</th><th>Mode</th><th>Note</th><th class="num">Montant</th></tr></thead>
  <tbody>
  {{range .Payments}}
    <tr><td>{{date .Date}}</td><td>{{.Method}}</td><td>{{.Note}}</td><td class="num">{{tnd .Amount}}</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}

{{if .Notes}}<p><strong>Notes :</strong> {{.Notes}}</p>{{end}}

<footer>{{with .Company}}{{.Name}}{{if .MatriculeFiscal}} · MF {{.MatriculeFiscal}}{{end}}{{end}}</footer>
</body>
</html>
`
