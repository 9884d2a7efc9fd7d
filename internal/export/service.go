package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/results"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

const (
	sheet      = "OCs"
	namePrefix = "OC-procesadas-"
	bom        = "\ufeff"
)

// Headers is the column layout shared by the CSV and XLSX exports.
var Headers = []string{
	"Orden",
	"FECHA",
	"A:",
	"Facturar a:",
	"Partida",
	"Descripción",
	"F. Entrega",
	"Cantidad",
	"Unidad",
	"Precio Unitario",
	"Precio Total",
	"IVA",
	"Total (IVA Incl)",
	"CONSULTORIA",
	"FOLIO REPSE",
	"PERIODO DE CONSULTORIA",
	"PROVEEDOR",
	"PROYECT",
	"TIPO DE TARIFA",
	"TIPO DE CONSULTOR",
	"DESCUENTO",
}

// Service writes result exports into the results area of a store.
type Service struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Row flattens one record into the export columns. The order column is the
// part of the key before the first '-'.
func Row(r results.Record) []string {
	order, _, _ := strings.Cut(r.Key, "-")
	d := r.Detail
	if d == nil {
		d = &results.Detail{}
	}
	return []string{
		order,
		r.Date,
		r.To,
		r.InvoiceTo,
		d.ItemNumber,
		d.Description,
		d.DeliveryDate,
		d.Quantity,
		d.Unit,
		d.UnitPrice,
		d.TotalPrice,
		d.Tax,
		d.TotalWithTax,
		d.Consultant,
		d.RepseFolio,
		d.Period,
		d.Provider,
		d.Project,
		d.RateType,
		d.ConsultantType,
		d.Discount,
	}
}

// CSV renders records with a UTF-8 BOM so spreadsheet apps detect the encoding.
func CSV(recs []results.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers); err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := w.Write(Row(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders records as a single-sheet workbook.
func XLSX(recs []results.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	writeRow := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		vals := make([]any, len(values))
		for i, v := range values {
			vals[i] = v
		}
		return f.SetSheetRow(sheet, cell, &vals)
	}

	if err := writeRow(1, Headers); err != nil {
		return nil, err
	}
	for i, r := range recs {
		if err := writeRow(i+2, Row(r)); err != nil {
			return nil, err
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 14) // order, date
	_ = f.SetColWidth(sheet, "C", "D", 40) // to, invoice
	_ = f.SetColWidth(sheet, "F", "F", 48) // description
	_ = f.SetColWidth(sheet, "J", "M", 16) // amounts
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// NextBaseName returns "OC-procesadas-YYYY-MM-DD", suffixed with -1, -2, ...
// until no CSV of that name exists in the results area.
func (s *Service) NextBaseName(ctx context.Context) (string, error) {
	base := namePrefix + s.now().UTC().Format("2006-01-02")
	name := base
	for n := 1; ; n++ {
		exists, err := s.store.Exists(ctx, constants.Results, name+"."+constants.ExtCSV)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d", base, n)
	}
}

// WriteCSV stores the CSV export as <base>.csv and returns its name.
func (s *Service) WriteCSV(ctx context.Context, base string, recs []results.Record) (string, error) {
	start := time.Now()
	body, err := CSV(recs)
	if err != nil {
		return "", fmt.Errorf("csv encode: %w", err)
	}
	name := base + "." + constants.ExtCSV
	if err := s.store.Save(ctx, constants.Results, name, body); err != nil {
		return "", err
	}
	s.logger.Info("export.csv.ok", "file", name, "rows", len(recs), "elapsed_ms", time.Since(start).Milliseconds())
	return name, nil
}

// WriteXLSX stores the workbook export as <base>.xlsx and returns its name.
func (s *Service) WriteXLSX(ctx context.Context, base string, recs []results.Record) (string, error) {
	start := time.Now()
	body, err := XLSX(recs)
	if err != nil {
		return "", err
	}
	name := base + "." + constants.ExtXLSX
	if err := s.store.Save(ctx, constants.Results, name, body); err != nil {
		return "", err
	}
	s.logger.Info("export.xlsx.ok", "file", name, "rows", len(recs), "elapsed_ms", time.Since(start).Milliseconds())
	return name, nil
}
