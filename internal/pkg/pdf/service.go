// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/pkg/money"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	funcs := template.FuncMap{
		"money": money.Format,
	}
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("receipt").Funcs(funcs).Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedOn      string
	OrderedOn     string
	Order         order.Order
	Lines         []order.Line
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// GenerateReceipt renders a PDF receipt for a placed order
func (s *Service) GenerateReceipt(details *order.Details) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(details)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt markup that GenerateReceipt converts
func (s *Service) RenderHTML(details *order.Details) (string, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", details.Order.ShortID()),
		IssuedOn:      time.Now().Format("January 2, 2006"),
		Order:         details.Order,
		Lines:         details.Lines,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Email:   s.config.App.CompanyEmail,
		},
	}
	if details.Order.CreatedAt != nil {
		data.OrderedOn = details.Order.CreatedAt.Format("January 2, 2006")
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Georgia, serif; margin: 0; padding: 24px; color: #3f3f46; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #fce7f3; padding-bottom: 16px; margin-bottom: 24px; }
        .title { font-size: 26px; font-weight: bold; color: #e11d48; }
        .section-title { font-size: 15px; font-weight: bold; margin-bottom: 8px; }
        .items { width: 100%; border-collapse: collapse; margin: 24px 0; }
        .items th, .items td { border: 1px solid #e4e4e7; padding: 10px 8px; text-align: left; }
        .items th { background-color: #fdf2f8; }
        .items .num { text-align: right; width: 90px; }
        .total { text-align: right; font-size: 18px; font-weight: bold; }
        .status { display: inline-block; padding: 3px 8px; border-radius: 4px; background: #dcfce7; color: #166534; font-size: 12px; }
        .footer { margin-top: 48px; text-align: center; color: #71717a; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Email}}<p>{{.Company.Email}}</p>{{end}}
        </div>
        <div>
            <div class="title">RECEIPT</div>
            <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Issued:</strong> {{.IssuedOn}}</p>
            {{if .OrderedOn}}<p><strong>Ordered:</strong> {{.OrderedOn}}</p>{{end}}
            <p><span class="status">{{.Order.Status}}</span></p>
        </div>
    </div>

    <div>
        <div class="section-title">Ship To:</div>
        <p><strong>{{.Order.FirstName}} {{.Order.LastName}}</strong></p>
        <p>{{.Order.Address}}</p>
        <p>{{.Order.City}}, {{.Order.State}} {{.Order.Pincode}}</p>
        <p>Phone: {{.Order.PhoneNumber}}</p>
        <p>Email: {{.Order.Email}}</p>
    </div>

    <table class="items">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                {{if .Product}}
                <td>{{.Product.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Product.Price}}</td>
                <td class="num">{{money .LineTotal}}</td>
                {{else}}
                <td>Unknown Product</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">-</td>
                <td class="num">-</td>
                {{end}}
            </tr>
            {{end}}
        </tbody>
    </table>

    <p class="total">Total: {{money .Order.TotalPrice}}</p>

    {{if .Order.Message}}<p><em>{{.Order.Message}}</em></p>{{end}}

    <div class="footer">
        <p>Thank you for supporting handcrafted work!</p>
    </div>
</body>
</html>
`
