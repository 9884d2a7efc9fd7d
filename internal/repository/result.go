package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/results"
)

// Batch summarizes one processing run.
type Batch struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	TotalFiles     int
	ProcessedFiles int
	ErrorCount     int
	CSVName        string
}

// Row is a persisted result record.
type Row struct {
	Key       string         `json:"key"`
	BatchID   string         `json:"batch_id"`
	Order     string         `json:"order"`
	Date      string         `json:"date"`
	To        string         `json:"to"`
	InvoiceTo string         `json:"invoice_to"`
	Detail    results.Detail `json:"detail"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ResultRepository interface {
	// SaveBatch records the batch and upserts its rows in one transaction.
	SaveBatch(ctx context.Context, b Batch, recs []results.Record) error
	ListByOrder(ctx context.Context, order string) ([]Row, error)
	ListByBatch(ctx context.Context, batchID string) ([]Row, error)
	ListRecent(ctx context.Context, limit int) ([]Row, error)
}

const (
	batchesTable = "batches"
	rowsTable    = "result_rows"

	maxListLimit = 500

	// fixed width so text ordering matches time ordering
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var rowColumns = []string{
	"result_key", "batch_id", "order_number", "item_number", "order_date", "ship_to", "invoice_to",
	"description", "delivery_date", "quantity", "unit", "unit_price", "total_price", "tax",
	"total_with_tax", "consultant", "repse_folio", "period", "provider", "project", "discount",
	"consultant_type", "updated_at",
}

type resultRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewResultRepository(db *DB, logger *slog.Logger) ResultRepository {
	return &resultRepository{
		db:     db,
		logger: common.LoggerOrDefault(logger),
		now:    time.Now,
	}
}

func (r *resultRepository) builder() *entsql.DialectBuilder { return entsql.Dialect(r.db.dialect) }

func (r *resultRepository) SaveBatch(ctx context.Context, b Batch, recs []results.Record) (err error) {
	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		return dbErr("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q, args := r.builder().Insert(batchesTable).
		Columns("id", "started_at", "finished_at", "total_files", "processed_files", "error_count", "csv_name").
		Values(b.ID, formatTime(b.StartedAt), formatTime(b.FinishedAt), b.TotalFiles, b.ProcessedFiles, b.ErrorCount, b.CSVName).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err = tx.Exec(ctx, q, args, nil); err != nil {
		return dbErr("insert batch", err)
	}

	if len(recs) > 0 {
		updated := formatTime(r.now())
		ins := r.builder().Insert(rowsTable).Columns(rowColumns...)
		for _, rec := range recs {
			d := rec.Detail
			if d == nil {
				d = &results.Detail{}
			}
			ins.Values(rec.Key, b.ID, rec.Order, d.ItemNumber, rec.Date, rec.To, rec.InvoiceTo,
				d.Description, d.DeliveryDate, d.Quantity, d.Unit, d.UnitPrice, d.TotalPrice, d.Tax,
				d.TotalWithTax, d.Consultant, d.RepseFolio, d.Period, d.Provider, d.Project, d.Discount,
				d.ConsultantType, updated)
		}
		q, args = ins.OnConflict(entsql.ConflictColumns("result_key"), entsql.ResolveWithNewValues()).Query()
		if err = tx.Exec(ctx, q, args, nil); err != nil {
			return dbErr("upsert rows", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return dbErr("commit", err)
	}
	r.logger.Debug("batch persisted", "batch_id", b.ID, "rows", len(recs))
	return nil
}

func (r *resultRepository) ListByOrder(ctx context.Context, order string) ([]Row, error) {
	q, args := r.builder().Select(rowColumns...).
		From(entsql.Table(rowsTable)).
		Where(entsql.EQ("order_number", order)).
		OrderBy("result_key").
		Query()
	return r.query(ctx, q, args)
}

// ListByBatch returns the rows last written by the given batch.
func (r *resultRepository) ListByBatch(ctx context.Context, batchID string) ([]Row, error) {
	q, args := r.builder().Select(rowColumns...).
		From(entsql.Table(rowsTable)).
		Where(entsql.EQ("batch_id", batchID)).
		OrderBy("result_key").
		Query()
	return r.query(ctx, q, args)
}

func (r *resultRepository) ListRecent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	q, args := r.builder().Select(rowColumns...).
		From(entsql.Table(rowsTable)).
		OrderBy(entsql.Desc("updated_at"), "result_key").
		Limit(limit).
		Query()
	return r.query(ctx, q, args)
}

func (r *resultRepository) query(ctx context.Context, q string, args []any) ([]Row, error) {
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to list result rows", "error", err)
		return nil, dbErr("query rows", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		var row Row
		var updated string
		d := &row.Detail
		if err := rows.Scan(&row.Key, &row.BatchID, &row.Order, &d.ItemNumber, &row.Date, &row.To, &row.InvoiceTo,
			&d.Description, &d.DeliveryDate, &d.Quantity, &d.Unit, &d.UnitPrice, &d.TotalPrice, &d.Tax,
			&d.TotalWithTax, &d.Consultant, &d.RepseFolio, &d.Period, &d.Provider, &d.Project, &d.Discount,
			&d.ConsultantType, &updated); err != nil {
			return nil, dbErr("scan row", err)
		}
		row.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("iterate rows", err)
	}
	return out, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func dbErr(op string, err error) error {
	return common.NewAppError("DB_ERROR", op, fmt.Errorf("%w: %w", common.ErrDatabase, err))
}

// NopRepository discards writes and returns no rows; used when no database
// is configured.
type NopRepository struct{}

func (NopRepository) SaveBatch(context.Context, Batch, []results.Record) error { return nil }
func (NopRepository) ListByOrder(context.Context, string) ([]Row, error)       { return nil, nil }
func (NopRepository) ListByBatch(context.Context, string) ([]Row, error)       { return nil, nil }
func (NopRepository) ListRecent(context.Context, int) ([]Row, error)           { return nil, nil }
