// Package importer drives a statement import from the uploaded file to the persisted
// budget entries.
package importer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"mynab/budget-import/internal/currencyutils"
	"mynab/budget-import/internal/filter"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"
	"mynab/budget-import/internal/parsererror"
	"mynab/budget-import/internal/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mynab/budget-import/internal/importer"

// unknownInstitution labels runs whose institution tag is not registered.
const unknownInstitution = "unknown"

// Dispatcher selects the parser for an institution and file name.
type Dispatcher interface {
	Dispatch(institution, filename string) (parser.StatementParser, error)
}

// Request is one statement upload.
type Request struct {
	UserID      int64
	Institution string
	// Currency is the ISO-4217 code of the account. Empty selects the default currency.
	Currency      string
	FileName      string
	ContentBase64 string
}

// Options configures an Importer.
type Options struct {
	// IgnorePhrases are noise phrases; transactions mentioning any of them are dropped.
	IgnorePhrases   []string
	DefaultCurrency string
	Metrics         *Metrics
	Logger          logging.Logger
}

// Importer runs imports. Each call is independent; an Importer may be used from
// several goroutines.
type Importer struct {
	dispatcher Dispatcher
	stage      *filter.Stage
	store      store.Store
	opts       Options
	logger     logging.Logger
	tracer     trace.Tracer
}

// New returns an Importer.
func New(dispatcher Dispatcher, stage *filter.Stage, st store.Store, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "ARS"
	}
	return &Importer{
		dispatcher: dispatcher,
		stage:      stage,
		store:      st,
		opts:       opts,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// ImportStatement parses the uploaded statement and persists its transactions one by
// one. Dispatcher and currency errors are returned unchanged. Decoding, container and
// storage errors are returned as *parsererror.ImportFailureError; rows persisted before
// a storage error stay persisted.
func (i *Importer) ImportStatement(ctx context.Context, req Request) (models.ImportResult, error) {
	start := time.Now()
	importID := uuid.NewString()
	log := i.logger.WithFields(
		logging.F(logging.FieldImportID, importID),
		logging.F(logging.FieldUserID, req.UserID),
		logging.F(logging.FieldInstitution, req.Institution),
		logging.F(logging.FieldFile, req.FileName),
	)

	ctx, span := i.tracer.Start(ctx, "ImportStatement", trace.WithAttributes(
		attribute.String("import.id", importID),
		attribute.String("import.institution", req.Institution),
		attribute.Int64("import.user_id", req.UserID),
	))
	defer span.End()

	result, err := i.run(ctx, log, req)
	institution := strings.ToLower(strings.TrimSpace(req.Institution))
	if errors.Is(err, parsererror.ErrUnsupportedInstitution) {
		institution = unknownInstitution
	}
	switch {
	case err == nil:
		i.opts.Metrics.observeRun(institution, OutcomeSuccess)
		span.SetAttributes(attribute.Int("import.imported_count", result.ImportedCount))
		log.Info("Import finished",
			logging.F(logging.FieldCount, result.ImportedCount),
			logging.F(logging.FieldDuration, time.Since(start).String()))
	case parsererror.IsUserError(err):
		i.opts.Metrics.observeRun(institution, OutcomeRejected)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Warn("Import rejected")
	default:
		i.opts.Metrics.observeRun(institution, OutcomeFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("Import failed",
			logging.F(logging.FieldCount, result.ImportedCount))
	}
	return result, err
}

func (i *Importer) run(ctx context.Context, log logging.Logger, req Request) (models.ImportResult, error) {
	var result models.ImportResult

	p, err := i.dispatcher.Dispatch(req.Institution, req.FileName)
	if err != nil {
		return result, err
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = i.opts.DefaultCurrency
	}
	currency, err = currencyutils.ValidateCurrency(currency)
	if err != nil {
		return result, err
	}

	encoded := strings.TrimSpace(req.ContentBase64)
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return result, parsererror.NewImportFailure(parsererror.StageDecode, err)
	}
	stmt := models.RawStatement{
		Content:     content,
		Institution: p.Institution(),
		Currency:    currency,
		FileName:    req.FileName,
	}

	fileID, err := i.store.CreateFile(ctx, models.FileRecord{
		UserID:        req.UserID,
		FileName:      stmt.FileName,
		ContentBase64: encoded,
		Currency:      stmt.Currency,
	})
	if err != nil {
		return result, parsererror.NewImportFailure(parsererror.StageFile, err)
	}
	log = log.WithField(logging.FieldFileID, fileID)

	txs, err := i.parse(ctx, p, stmt)
	if err != nil {
		return result, parsererror.NewImportFailure(parsererror.StageOpen, err)
	}
	if len(txs) == 0 {
		log.Info("Statement contains no transactions")
		return result, nil
	}
	for k := range txs {
		txs[k].Currency = stmt.Currency
		txs[k].FileID = fileID
	}

	nationalID := ""
	if user, err := i.store.LookupUser(ctx, req.UserID); err != nil {
		log.WithError(err).Warn("User lookup failed, personal id filter disabled")
	} else {
		nationalID = user.NationalID
	}

	ignore := filter.BuildIgnoreList(i.opts.IgnorePhrases, nationalID)
	log.Debug("Filtering transactions",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("ignore_phrases", ignore.Len()))

	kept, outcome := i.stage.EnrichAndFilter(txs, ignore)
	i.opts.Metrics.addSkipped(stmt.Institution, "ignored", outcome.Ignored)

	count, err := i.persist(ctx, log, req.UserID, kept)
	result.ImportedCount = count
	i.opts.Metrics.addTransactions(stmt.Institution, count)
	if err != nil {
		return result, parsererror.NewImportFailure(parsererror.StagePersist, err)
	}
	return result, nil
}

func (i *Importer) parse(ctx context.Context, p parser.StatementParser, stmt models.RawStatement) ([]models.Transaction, error) {
	ctx, span := i.tracer.Start(ctx, "parse", trace.WithAttributes(
		attribute.String("parser", stmt.Institution),
		attribute.String("file.name", stmt.FileName),
		attribute.Int("content.bytes", len(stmt.Content)),
	))
	defer span.End()

	txs, err := p.Parse(ctx, stmt.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("transactions", len(txs)))
	return txs, nil
}

func (i *Importer) persist(ctx context.Context, log logging.Logger, userID int64, txs []models.Transaction) (int, error) {
	ctx, span := i.tracer.Start(ctx, "persist", trace.WithAttributes(attribute.Int("transactions", len(txs))))
	defer span.End()

	count := 0
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := i.store.CreateTransaction(ctx, userID, tx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.WithError(err).Error("Failed to persist transaction",
				logging.F(logging.FieldReference, tx.ReferenceID),
				logging.F("persisted", count))
			return count, err
		}
		count++
	}
	span.SetAttributes(attribute.Int("persisted", count))
	return count, nil
}

