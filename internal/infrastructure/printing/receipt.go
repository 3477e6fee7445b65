package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const receiptHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
@page { size: 80mm auto; margin: 4mm; }
body { font-family: "DejaVu Sans Mono", monospace; font-size: 11px; width: 72mm; }
h1 { font-size: 14px; text-align: center; margin: 0 0 6px; }
table { width: 100%; border-collapse: collapse; }
td.num { text-align: right; }
tr.total td { border-top: 1px dashed #000; font-weight: bold; }
.meta { margin-bottom: 6px; }
.notes { margin-top: 8px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
<div>{{label "date"}}: {{.Entry.EntryDate}}{{with .Entry.EntryTime}} {{.}}{{end}}</div>
<div>{{label "employee"}}: {{clean .Entry.EmployeeName}}</div>
<div>{{label "entry"}}: {{.Entry.ID}}</div>
</div>
<table>
{{range .Lines}}<tr><td>{{.Label}}</td><td class="num">{{.Quantity}}</td><td class="num">{{cents .AmountCents}}</td></tr>
{{end}}<tr class="total"><td colspan="2">{{label "bills"}}</td><td class="num">{{cents .Totals.BillsCents}}</td></tr>
<tr><td colspan="2">{{label "coins"}}</td><td class="num">{{cents .Totals.CoinsCents}}</td></tr>
<tr><td colspan="2">{{label "register 1"}}</td><td class="num">{{cents .Entry.Reg1Cents}}</td></tr>
<tr><td colspan="2">{{label "register 2"}}</td><td class="num">{{cents .Entry.Reg2Cents}}</td></tr>
<tr><td colspan="2">{{label "registers"}}</td><td class="num">{{cents .Totals.RegistersCents}}</td></tr>
<tr class="total"><td colspan="2">{{label "grand total"}}</td><td class="num">{{cents .Totals.GrandCents}}</td></tr>
</table>
{{with .Entry.Notes}}<div class="notes">{{clean .}}</div>{{end}}
<div class="meta">{{label "printed"}}: {{.PrintedAt}}</div>
</body>
</html>
`

// ReceiptTemplate renders Safe cuadre receipts.
type ReceiptTemplate struct {
	tmpl *template.Template
	now  func() time.Time
}

type receiptData struct {
	Title     string
	Entry     *forms.CashCountEntry
	Lines     []forms.DenominationLine
	Totals    forms.Totals
	PrintedAt string
}

// NewReceiptTemplate parses the receipt layout.
func NewReceiptTemplate() *ReceiptTemplate {
	policy := bluemonday.StrictPolicy()
	title := cases.Title(language.AmericanEnglish)
	funcs := template.FuncMap{
		"cents": forms.FormatCents,
		"label": title.String,
		// html/template escapes again on output; the strict policy drops markup
		// so only the text survives.
		"clean": func(s string) string {
			return strings.TrimSpace(policy.Sanitize(s))
		},
	}
	return &ReceiptTemplate{
		tmpl: template.Must(template.New("receipt").Funcs(funcs).Parse(receiptHTML)),
		now:  time.Now,
	}
}

// Render builds the receipt document for entry.
func (t *ReceiptTemplate) Render(entry *forms.CashCountEntry) (string, error) {
	if entry == nil {
		return "", NewRenderError(ErrCodeTemplate, "receipt entry is nil", nil)
	}
	data := receiptData{
		Title:     "Cuadre del Safe",
		Entry:     entry,
		Lines:     forms.Ledger{}.Compute(entry.Counts).Lines,
		Totals:    entry.Totals(),
		PrintedAt: t.now().Format("2006-01-02 15:04"),
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to render receipt", err)
	}
	return buf.String(), nil
}
