package render

import (
	"bytes"
	"html/template"
	"sort"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/hspware/hospital_billing_app/internal/utils"
	"github.com/shopspring/decimal"
)

func formatMoney(amount decimal.Decimal) string {
	return utils.FormatAmount(amount)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

const billHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Bill {{.Bill.BillNumber}}</title>
  <style>
    body { margin: 0; padding: 32px; font-family: "Segoe UI", Roboto, Helvetica, Arial, sans-serif; color: #1a1f36; background: #f7f9fc; }
    .card { background: #fff; max-width: 760px; margin: 0 auto; padding: 48px; border-radius: 4px; box-shadow: 0 2px 5px rgba(0,0,0,0.04); }
    .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
    .header h1 { margin: 0; font-size: 22px; }
    .header-right { text-align: right; color: #8792a2; font-size: 14px; }
    .label { font-size: 11px; text-transform: uppercase; color: #8792a2; margin-bottom: 4px; font-weight: 600; }
    .value { font-size: 14px; line-height: 1.5; }
    .meta { display: flex; justify-content: space-between; margin-bottom: 32px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
    th { text-align: left; text-transform: uppercase; font-size: 11px; color: #8792a2; border-bottom: 1px solid #e3e8ee; padding: 8px 0; }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; }
    .td-right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row { display: flex; justify-content: space-between; width: 260px; padding: 5px 0; font-size: 14px; }
    .total-label { color: #697386; }
    .total-final { border-top: 1px solid #e3e8ee; margin-top: 8px; padding-top: 8px; font-weight: 700; font-size: 16px; }
  </style>
</head>
<body>
  <div class="card">
    <div class="header">
      <div>
        <h1>{{if eq .Bill.BillType "OPD"}}OPD Receipt{{else}}{{.Title}}{{end}}</h1>
        <div class="label" style="margin-top: 12px;">Bill number</div>
        <div class="value">{{.Bill.BillNumber}} (No. {{.Bill.BillNo}})</div>
      </div>
      <div class="header-right">
        <strong>{{.HospitalName}}</strong><br>
        {{.HospitalAddress}}
      </div>
    </div>

    <div class="meta">
      <div>
        <div class="label">Patient</div>
        <div class="value">
          <strong>{{.Patient.Name}}</strong><br>
          {{.Patient.PatientNumber}}<br>
          {{.Patient.Phone}}
        </div>
      </div>
      <div style="text-align: right;">
        <div class="label">Date</div>
        <div class="value">{{formatDate .Bill.CreatedAt}}</div>
        {{if .Admission}}
        <div class="label" style="margin-top: 12px;">IPD No.</div>
        <div class="value">{{.Admission.IPDNumber}} ({{.Admission.WardType}})</div>
        {{end}}
      </div>
    </div>

    {{if .Lines}}
    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Description</th>
          <th class="td-right">Rate</th>
          <th class="td-right">Days</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Lines}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{formatMoney .Rate}}</td>
          <td class="td-right">{{.Days}}</td>
          <td class="td-right">{{formatMoney .Total}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Total charges</span>
        <span>{{formatMoney .Bill.Calculation.TotalCharges}}</span>
      </div>
      {{if not .Bill.Calculation.Discount.IsZero}}
      <div class="total-row">
        <span class="total-label">Discount</span>
        <span>-{{formatMoney .Bill.Calculation.Discount}}</span>
      </div>
      {{end}}
      {{if not .Bill.Calculation.Advance.IsZero}}
      <div class="total-row">
        <span class="total-label">Advance deposits</span>
        <span>-{{formatMoney .Bill.Calculation.Advance}}</span>
      </div>
      {{end}}
      <div class="total-row total-final">
        <span>Net payable</span>
        <span>{{formatMoney .Bill.Calculation.FinalAmount}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Amount paid</span>
        <span>{{formatMoney .Bill.AmountPaid}}</span>
      </div>
    </div>
  </div>
</body>
</html>
`

const depositHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Deposit Receipt {{.Deposit.ReceiptID}}</title>
  <style>
    body { margin: 0; padding: 32px; font-family: "Segoe UI", Roboto, Helvetica, Arial, sans-serif; color: #1a1f36; background: #f7f9fc; }
    .card { background: #fff; max-width: 560px; margin: 0 auto; padding: 48px; border-radius: 4px; box-shadow: 0 2px 5px rgba(0,0,0,0.04); }
    .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
    .header h1 { margin: 0; font-size: 22px; }
    .header-right { text-align: right; color: #8792a2; font-size: 14px; }
    .label { font-size: 11px; text-transform: uppercase; color: #8792a2; margin-bottom: 4px; font-weight: 600; }
    .value { font-size: 14px; line-height: 1.5; margin-bottom: 16px; }
    .amount { font-size: 30px; font-weight: 700; margin-bottom: 24px; }
  </style>
</head>
<body>
  <div class="card">
    <div class="header">
      <div>
        <h1>Advance Deposit Receipt</h1>
        <div class="label" style="margin-top: 12px;">Receipt no.</div>
        <div class="value">{{.Deposit.ReceiptID}} (#{{.Deposit.SequenceNumber}})</div>
      </div>
      <div class="header-right">
        <strong>{{.HospitalName}}</strong><br>
        {{.HospitalAddress}}
      </div>
    </div>

    <div class="amount">{{formatMoney .Deposit.Amount}}</div>

    <div class="label">Received from</div>
    <div class="value"><strong>{{.Patient.Name}}</strong> ({{.Patient.PatientNumber}})</div>

    <div class="label">Date</div>
    <div class="value">{{formatDate .Deposit.CreatedAt}}</div>

    {{if .Deposit.PaymentMode}}
    <div class="label">Payment mode</div>
    <div class="value">{{.Deposit.PaymentMode}}</div>
    {{end}}

    <div class="label">Total deposits this admission</div>
    <div class="value">{{formatMoney .Deposit.CumulativeAmount}}</div>
  </div>
</body>
</html>
`

// billLine is one rendered row of the charges table.
type billLine struct {
	Description string
	Rate        decimal.Decimal
	Days        int
	Total       decimal.Decimal
}

// HTMLRenderer produces the printable HTML documents for bills and deposit
// receipts. The rendered bytes go straight to the document store; nothing here
// touches the persisted financial record.
type HTMLRenderer struct {
	hospitalName    string
	hospitalAddress string
	billTpl         *template.Template
	depositTpl      *template.Template
}

// NewHTMLRenderer builds a renderer stamped with the hospital letterhead.
func NewHTMLRenderer(hospitalName, hospitalAddress string) *HTMLRenderer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
	}
	return &HTMLRenderer{
		hospitalName:    hospitalName,
		hospitalAddress: hospitalAddress,
		billTpl:         template.Must(template.New("bill").Funcs(funcs).Parse(billHTMLTemplate)),
		depositTpl:      template.Must(template.New("deposit").Funcs(funcs).Parse(depositHTMLTemplate)),
	}
}

// RenderBill renders the bill document. admission may be nil for OPD receipts.
func (r *HTMLRenderer) RenderBill(bill *domain.Bill, patient *domain.Patient, admission *domain.Admission) ([]byte, error) {
	title := "Discharge Bill"
	if bill.BillType == domain.BillTypeFinal {
		title = "Final Settlement Receipt"
	}

	// Charge maps have no inherent order; sort custom lines after fixed ones,
	// alphabetically within each group, so reprints are stable.
	keys := make([]string, 0, len(bill.Charges))
	for key := range bill.Charges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := bill.Charges[keys[i]], bill.Charges[keys[j]]
		if a.IsCustom != b.IsCustom {
			return !a.IsCustom
		}
		return a.Description < b.Description
	})

	lines := make([]billLine, 0, len(keys))
	for _, key := range keys {
		c := bill.Charges[key]
		lines = append(lines, billLine{
			Description: c.Description,
			Rate:        c.Rate,
			Days:        c.Days,
			Total:       c.Total,
		})
	}

	data := map[string]any{
		"Title":           title,
		"HospitalName":    r.hospitalName,
		"HospitalAddress": r.hospitalAddress,
		"Bill":            bill,
		"Patient":         patient,
		"Admission":       admission,
		"Lines":           lines,
	}

	var buf bytes.Buffer
	if err := r.billTpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDepositReceipt renders the advance deposit receipt document.
func (r *HTMLRenderer) RenderDepositReceipt(deposit *domain.DepositReceipt, patient *domain.Patient) ([]byte, error) {
	data := map[string]any{
		"HospitalName":    r.hospitalName,
		"HospitalAddress": r.hospitalAddress,
		"Deposit":         deposit,
		"Patient":         patient,
	}

	var buf bytes.Buffer
	if err := r.depositTpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
