// Package pipeline runs the cash-flow stages end to end: statement
// extraction, the card bill schedule, projection and rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fjacquet/fillcash/internal/common"
	"fjacquet/fillcash/internal/config"
	"fjacquet/fillcash/internal/extractor"
	"fjacquet/fillcash/internal/formula"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/projection"
	"fjacquet/fillcash/internal/render"
	"fjacquet/fillcash/internal/store"
)

var (
	// ErrNoBank is returned by Extract when no bank is configured.
	ErrNoBank = errors.New("bankname is not configured")
	// ErrBillsExist is returned by GenerateBills when the schedule already
	// exists and overwriting was not requested.
	ErrBillsExist = errors.New("card bills file already exists")
)

// Pipeline holds the collaborators of every stage.
type Pipeline struct {
	cfg      *config.Config
	registry *extractor.Registry
	bills    *store.BillStore
	logger   logging.Logger
	now      func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now as the source of the run date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline.
func New(cfg *config.Config, registry *extractor.Registry, bills *store.BillStore, logger logging.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		registry: registry,
		bills:    bills,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractResult describes a finished extraction.
type ExtractResult struct {
	Source extractor.Source
	Input  string
	Output string
	Count  int
}

// Extract reads the configured bank statement and writes the canonical
// statement file.
func (p *Pipeline) Extract(ctx context.Context) (*ExtractResult, error) {
	if p.cfg.BankName == "" {
		return nil, ErrNoBank
	}
	src := extractor.NewSource(p.cfg.BankName, p.cfg.StatementFormat)
	res := &ExtractResult{
		Source: src,
		Input:  src.InputPath(p.cfg.Paths.StatementsDir),
		Output: p.cfg.StatementPath(),
	}

	txs, err := p.registry.ExtractFile(src.Bank, src.Format, res.Input)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", src, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := common.WriteTransactionsFile(res.Output, txs, p.logger); err != nil {
		return nil, err
	}
	res.Count = len(txs)
	return res, nil
}

// GenerateBills writes a zero-amount bill for every configured card over
// the configured number of months, starting with the current month.
func (p *Pipeline) GenerateBills(ctx context.Context, overwrite bool) (int, error) {
	if p.bills.Exists() && !overwrite {
		return 0, fmt.Errorf("%w: %s", ErrBillsExist, p.bills.Path())
	}
	records := store.GenerateSchedule(p.now(), p.cfg.CardDefinitions(), p.cfg.Bills.Months)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := p.bills.Save(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Result describes a finished projection run.
type Result struct {
	RunID      string
	Days       int
	ActualDays int
	Columns    []string
	SilverPath string
	SheetPath  string
	Summary    formula.Summary
}

// inputs are the files a projection run reads.
type inputs struct {
	transactions []models.Transaction
	bills        []models.CardBill
}

func (p *Pipeline) load(ctx context.Context, logger logging.Logger) (*inputs, error) {
	in := &inputs{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := common.ReadTransactionsFile(p.cfg.StatementPath(), logger)
		if err != nil {
			return err
		}
		in.transactions = txs
		return ctx.Err()
	})
	g.Go(func() error {
		bills, err := p.bills.Load()
		if err != nil {
			return err
		}
		in.bills = bills
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// Project builds the ledger from the statement, configuration and bills,
// then writes the silver CSV and the workbook. Nothing is written unless
// the whole ledger and its balance chain were built.
func (p *Pipeline) Project(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.WithField(logging.FieldRunID, runID)
	now := p.now()
	start := time.Now()

	in, err := p.load(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("loading inputs: %w", err)
	}

	ledger, err := projection.Project(projection.Input{
		Now:          now,
		Transactions: in.transactions,
		Recurring:    p.cfg.RecurringItems(),
		Cards:        p.cfg.CardDefinitions(),
		Bills:        in.bills,
	})
	if err != nil {
		return nil, fmt.Errorf("building ledger: %w", err)
	}

	sheet, err := formula.BuildSheet(ledger)
	if err != nil {
		return nil, fmt.Errorf("building balance formulas: %w", err)
	}
	summary, err := formula.Summarize(sheet)
	if err != nil {
		return nil, fmt.Errorf("evaluating balances: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		Days:       len(ledger.Rows),
		Columns:    ledger.Columns,
		SilverPath: p.cfg.SilverPath(),
		SheetPath:  p.cfg.SheetPath(now),
		Summary:    summary,
	}
	for _, row := range ledger.Rows {
		if row.Kind == projection.DayActual {
			res.ActualDays++
		}
	}

	out := render.Outputs{
		SilverPath: res.SilverPath,
		SheetPath:  res.SheetPath,
		Delimiter:  p.cfg.Delimiter(),
		CardColors: p.cfg.CardColors(),
	}
	if err := render.WriteAll(out, sheet, logger); err != nil {
		return nil, err
	}

	logger.Info("Projection complete",
		logging.F(logging.FieldCount, res.Days),
		logging.F(logging.FieldBalance, summary.Closing.StringFixed(2)),
		logging.F(logging.FieldDate, summary.ClosingDate.Format(models.DateLayout)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return res, nil
}

// Run extracts the statement and then projects.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if _, err := p.Extract(ctx); err != nil {
		return nil, err
	}
	return p.Project(ctx)
}
