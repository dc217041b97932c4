package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Sheet names inside the voucher workbook.
const (
	SheetVouchers   = "Vouchers"
	SheetAffiliates = "Affiliates"
	SheetSales      = "Sales"
	SheetPayments   = "Payments"
)

// Header rows, in stored column order. Operators pre-seed the Vouchers sheet
// offline; the service only ever flips rows to used.
var (
	voucherHeaders   = []string{"Serial", "PIN", "Status", "AssignedPhone", "AssignedEmail", "AssignedAt", "AffiliateCode"}
	affiliateHeaders = []string{"Code", "Name", "Phone", "TotalSales", "TotalCommission"}
	saleHeaders      = []string{"Timestamp", "Code", "BuyerPhone", "Amount", "Commission", "VoucherSerial", "Paid"}
	paymentHeaders   = []string{"Reference", "Phone", "Email", "Amount", "VoucherSerial", "AffiliateCode", "LoggedAt"}
)

// VoucherRow is one inventory unit. Index is the 1-based sheet row the data
// lives at (row 1 is the header), and is the write target for updates.
type VoucherRow struct {
	Index         int
	Serial        string
	PIN           string
	Status        string
	AssignedPhone string
	AssignedEmail string
	AssignedAt    string
	AffiliateCode string
}

// AffiliateRow is one affiliate account.
type AffiliateRow struct {
	Index           int
	Code            string
	Name            string
	Phone           string
	TotalSales      int
	TotalCommission float64
}

// SaleRow is one append-only affiliate sale event.
type SaleRow struct {
	Timestamp     string
	Code          string
	BuyerPhone    string
	Amount        float64
	Commission    float64
	VoucherSerial string
	Paid          string
}

// PaymentRow is one append-only processed-payment record; Reference doubles
// as the idempotency key.
type PaymentRow struct {
	Reference     string
	Phone         string
	Email         string
	Amount        float64
	VoucherSerial string
	AffiliateCode string
	LoggedAt      string
}

// TabularStore abstracts the spreadsheet-shaped store the relay persists to.
type TabularStore interface {
	ListVouchers(ctx context.Context) ([]VoucherRow, error)
	UpdateVoucher(ctx context.Context, row VoucherRow) error
	ListAffiliates(ctx context.Context) ([]AffiliateRow, error)
	AppendAffiliate(ctx context.Context, row AffiliateRow) error
	UpdateAffiliateTotals(ctx context.Context, index, totalSales int, totalCommission float64) error
	AppendSale(ctx context.Context, row SaleRow) error
	ListPaymentRefs(ctx context.Context) ([]string, error)
	AppendPayment(ctx context.Context, row PaymentRow) error
}

// Workbook is an xlsx-backed TabularStore.
//
// Every operation holds one mutex for its full read-modify-write-save span.
// The workbook file has no conditional-update primitive, so in-process
// serialization is the concurrency strategy; it is sound because this
// process is the sole writer of the file.
type Workbook struct {
	path string
	mu   sync.Mutex
	f    *excelize.File
}

// Open loads an existing workbook. The Vouchers sheet must exist; the other
// sheets are provisioned lazily on first write.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	if _, err := f.GetRows(SheetVouchers); err != nil {
		f.Close()
		return nil, fmt.Errorf("workbook %s has no %s sheet: %w", path, SheetVouchers, err)
	}

	return &Workbook{path: path, f: f}, nil
}

// Create builds a fresh workbook with all sheets and headers. Used by the
// seed tooling and by tests.
func Create(path string) (*Workbook, error) {
	f := excelize.NewFile()

	// The default sheet becomes Vouchers.
	if err := f.SetSheetName("Sheet1", SheetVouchers); err != nil {
		return nil, fmt.Errorf("failed to name voucher sheet: %w", err)
	}
	sheets := map[string][]string{
		SheetVouchers:   voucherHeaders,
		SheetAffiliates: affiliateHeaders,
		SheetSales:      saleHeaders,
		SheetPayments:   paymentHeaders,
	}
	for name, headers := range sheets {
		if name != SheetVouchers {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
			}
		}
		if err := setHeaderRow(f, name, headers); err != nil {
			return nil, err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	return &Workbook{path: path, f: f}, nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// ListVouchers returns every voucher row in stored order.
func (w *Workbook) ListVouchers(ctx context.Context) ([]VoucherRow, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.f.GetRows(SheetVouchers)
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher sheet: %w", err)
	}

	out := make([]VoucherRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if cell(row, 0) == "" && cell(row, 1) == "" {
			continue // blank padding row
		}
		out = append(out, VoucherRow{
			Index:         i + 1,
			Serial:        cell(row, 0),
			PIN:           cell(row, 1),
			Status:        cell(row, 2),
			AssignedPhone: cell(row, 3),
			AssignedEmail: cell(row, 4),
			AssignedAt:    cell(row, 5),
			AffiliateCode: cell(row, 6),
		})
	}
	return out, nil
}

// UpdateVoucher writes a voucher row back at its exact index.
func (w *Workbook) UpdateVoucher(ctx context.Context, row VoucherRow) error {
	if row.Index < 2 {
		return fmt.Errorf("voucher row index %d is not a data row", row.Index)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	values := []interface{}{row.Serial, row.PIN, row.Status, row.AssignedPhone, row.AssignedEmail, row.AssignedAt, row.AffiliateCode}
	cellRef := fmt.Sprintf("A%d", row.Index)
	if err := w.f.SetSheetRow(SheetVouchers, cellRef, &values); err != nil {
		return fmt.Errorf("failed to write voucher row %d: %w", row.Index, err)
	}
	return w.save()
}

// ListAffiliates returns every affiliate account row.
func (w *Workbook) ListAffiliates(ctx context.Context) ([]AffiliateRow, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.f.GetRows(SheetAffiliates)
	if err != nil {
		return nil, fmt.Errorf("failed to read affiliate sheet: %w", err)
	}

	out := make([]AffiliateRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || cell(row, 0) == "" {
			continue
		}
		out = append(out, AffiliateRow{
			Index:           i + 1,
			Code:            cell(row, 0),
			Name:            cell(row, 1),
			Phone:           cell(row, 2),
			TotalSales:      atoi(cell(row, 3)),
			TotalCommission: atof(cell(row, 4)),
		})
	}
	return out, nil
}

// AppendAffiliate creates a new affiliate account row.
func (w *Workbook) AppendAffiliate(ctx context.Context, row AffiliateRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	values := []interface{}{row.Code, row.Name, row.Phone, row.TotalSales, row.TotalCommission}
	if err := w.appendRow(SheetAffiliates, affiliateHeaders, values); err != nil {
		return fmt.Errorf("failed to append affiliate %s: %w", row.Code, err)
	}
	return w.save()
}

// UpdateAffiliateTotals writes back only the running totals of the account
// at the given row index.
func (w *Workbook) UpdateAffiliateTotals(ctx context.Context, index, totalSales int, totalCommission float64) error {
	if index < 2 {
		return fmt.Errorf("affiliate row index %d is not a data row", index)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.f.SetCellValue(SheetAffiliates, fmt.Sprintf("D%d", index), totalSales); err != nil {
		return fmt.Errorf("failed to write affiliate totals: %w", err)
	}
	if err := w.f.SetCellValue(SheetAffiliates, fmt.Sprintf("E%d", index), totalCommission); err != nil {
		return fmt.Errorf("failed to write affiliate totals: %w", err)
	}
	return w.save()
}

// AppendSale appends one sale event row.
func (w *Workbook) AppendSale(ctx context.Context, row SaleRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	values := []interface{}{row.Timestamp, row.Code, row.BuyerPhone, row.Amount, row.Commission, row.VoucherSerial, row.Paid}
	if err := w.appendRow(SheetSales, saleHeaders, values); err != nil {
		return fmt.Errorf("failed to append sale event: %w", err)
	}
	return w.save()
}

// ListPaymentRefs returns the reference column of the payment log.
func (w *Workbook) ListPaymentRefs(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.f.GetRows(SheetPayments)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment sheet: %w", err)
	}

	refs := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || cell(row, 0) == "" {
			continue
		}
		refs = append(refs, cell(row, 0))
	}
	return refs, nil
}

// AppendPayment appends one processed-payment record.
func (w *Workbook) AppendPayment(ctx context.Context, row PaymentRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	values := []interface{}{row.Reference, row.Phone, row.Email, row.Amount, row.VoucherSerial, row.AffiliateCode, row.LoggedAt}
	if err := w.appendRow(SheetPayments, paymentHeaders, values); err != nil {
		return fmt.Errorf("failed to append payment %s: %w", row.Reference, err)
	}
	return w.save()
}

// appendRow writes values at the first row past the current data,
// provisioning the sheet with headers if it does not exist yet.
// Caller holds the mutex.
func (w *Workbook) appendRow(sheet string, headers []string, values []interface{}) error {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		// Sheet missing: provision it.
		if _, nerr := w.f.NewSheet(sheet); nerr != nil {
			return nerr
		}
		if herr := setHeaderRow(w.f, sheet, headers); herr != nil {
			return herr
		}
		rows = [][]string{headers}
	}

	next := len(rows) + 1
	return w.f.SetSheetRow(sheet, fmt.Sprintf("A%d", next), &values)
}

// save persists the workbook in place. Caller holds the mutex.
func (w *Workbook) save() error {
	if err := w.f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setHeaderRow(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", sheet, err)
	}
	return nil
}

// cell returns column i of a row, tolerating the trailing-cell trimming
// excelize applies to sparse rows.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
