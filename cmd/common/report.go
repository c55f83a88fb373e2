// Package common contains shared functionality for command handlers
package common

import (
	"fjacquet/fillcash/internal/container"
	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
	"fjacquet/fillcash/internal/pipeline"
)

// RequireContainer returns c, logging fatal when setup did not run.
func RequireContainer(c *container.Container, log logging.Logger) *container.Container {
	if c == nil {
		log.Fatal("Container not initialized")
	}
	return c
}

// ReportExtraction logs the outcome of an extraction.
func ReportExtraction(res *pipeline.ExtractResult, log logging.Logger) {
	log.Info("Extraction completed successfully!",
		logging.F(logging.FieldBank, res.Source.Bank),
		logging.F(logging.FieldFormat, res.Source.Format),
		logging.F(logging.FieldInputFile, res.Input),
		logging.F(logging.FieldOutputFile, res.Output),
		logging.F(logging.FieldCount, res.Count))
}

// ReportProjection logs where the ledger was written and its key balances.
func ReportProjection(res *pipeline.Result, log logging.Logger) {
	log.Info("Cash flow written",
		logging.F(logging.FieldRunID, res.RunID),
		logging.F("silver", res.SilverPath),
		logging.F("workbook", res.SheetPath),
		logging.F("days", res.Days),
		logging.F("actual_days", res.ActualDays))
	log.Info("Balance outlook",
		logging.F("closing", res.Summary.Closing.StringFixed(2)),
		logging.F("closing_date", res.Summary.ClosingDate.Format(models.DateLayout)),
		logging.F("lowest", res.Summary.Lowest.StringFixed(2)),
		logging.F("lowest_date", res.Summary.LowestDate.Format(models.DateLayout)))
	if res.Summary.Lowest.IsNegative() {
		log.Warn("Projected balance goes negative",
			logging.F(logging.FieldBalance, res.Summary.Lowest.StringFixed(2)),
			logging.F(logging.FieldDate, res.Summary.LowestDate.Format(models.DateLayout)))
	}
}
