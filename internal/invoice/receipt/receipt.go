// Package receipt renders committed invoices for printing or export.
package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/unicode/norm"
)

const (
	FormatText = "text"
	FormatHTML = "html"

	ruleWidth = 44
)

var printer = message.NewPrinter(language.English)

// Money renders v as "<CUR> 0.00". Unknown currency codes are printed
// upper-cased as given.
func Money(code string, v float64) string {
	cur := strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(cur); err == nil {
		cur = unit.String()
	}

	// Round on the decimal form first so 4.725 prints as 4.73.
	rounded, err := strconv.ParseFloat(model.FormatMoney(v), 64)
	if err != nil {
		rounded = v
	}
	return cur + " " + printer.Sprint(number.Decimal(rounded, number.Scale(2)))
}

func rate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64) + "%"
}

// Render dispatches on format, returning the body and its content type.
func Render(format string, inv *model.Invoice, s model.Settings) (string, string, error) {
	switch format {
	case "", FormatText:
		return Text(inv, s), "text/plain; charset=utf-8", nil
	case FormatHTML:
		body, err := HTML(inv, s)
		return body, "text/html; charset=utf-8", err
	default:
		return "", "", &model.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported receipt format %q", format)}
	}
}

func Text(inv *model.Invoice, s model.Settings) string {
	var b strings.Builder
	rule := strings.Repeat("-", ruleWidth) + "\n"

	fmt.Fprintf(&b, "%s\n", norm.NFC.String(s.StoreName))
	fmt.Fprintf(&b, "Invoice: %s\n", inv.ID)
	fmt.Fprintf(&b, "Date:    %s\n", inv.Date)
	fmt.Fprintf(&b, "Payment: %s\n", inv.PaymentMethod)
	b.WriteString(rule)
	for _, l := range inv.Items {
		left := fmt.Sprintf("  %d x %s", l.Qty, Money(s.Currency, l.Price))
		fmt.Fprintf(&b, "%s\n%s%*s\n", norm.NFC.String(l.Name), left, ruleWidth-len(left), Money(s.Currency, l.Total))
	}
	b.WriteString(rule)
	total := func(label, value string) {
		fmt.Fprintf(&b, "%-16s%*s\n", label, ruleWidth-16, value)
	}
	total("Subtotal", Money(s.Currency, inv.Subtotal))
	total("Tax ("+rate(s.TaxRate)+")", Money(s.Currency, inv.Tax))
	total("Discount", Money(s.Currency, inv.Discount))
	total("Total", Money(s.Currency, inv.Total))
	return b.String()
}

var htmlTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice {{.Invoice.ID}}</title></head>
<body>
<h1>{{.StoreName}}</h1>
<p>Invoice {{.Invoice.ID}}<br>Date {{.Invoice.Date}}<br>Payment {{.Invoice.PaymentMethod}}</p>
<table>
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Qty}}</td><td>{{.Price}}</td><td>{{.Total}}</td></tr>
{{end}}</table>
<p>Subtotal {{.Subtotal}}<br>Tax ({{.TaxRate}}) {{.Tax}}<br>Discount {{.Discount}}<br><strong>Total {{.Total}}</strong></p>
<img alt="invoice {{.Invoice.ID}}" src="{{.QR}}">
</body>
</html>
`))

type htmlLine struct {
	Name  string
	Qty   int
	Price string
	Total string
}

type htmlView struct {
	Invoice   *model.Invoice
	StoreName string
	Lines     []htmlLine
	Subtotal  string
	TaxRate   string
	Tax       string
	Discount  string
	Total     string
	QR        template.URL
}

// HTML renders a printable receipt with a QR code of the invoice id.
func HTML(inv *model.Invoice, s model.Settings) (string, error) {
	qr, err := QRDataURI(inv.ID)
	if err != nil {
		return "", err
	}

	view := htmlView{
		Invoice:   inv,
		StoreName: norm.NFC.String(s.StoreName),
		Subtotal:  Money(s.Currency, inv.Subtotal),
		TaxRate:   rate(s.TaxRate),
		Tax:       Money(s.Currency, inv.Tax),
		Discount:  Money(s.Currency, inv.Discount),
		Total:     Money(s.Currency, inv.Total),
		QR:        template.URL(qr),
	}
	for _, l := range inv.Items {
		view.Lines = append(view.Lines, htmlLine{
			Name:  norm.NFC.String(l.Name),
			Qty:   l.Qty,
			Price: Money(s.Currency, l.Price),
			Total: Money(s.Currency, l.Total),
		})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render receipt %s: %w", inv.ID, err)
	}
	return buf.String(), nil
}

// QRDataURI encodes content as a PNG QR code ready for an <img src>.
func QRDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
