// Package project handles the cash-flow projection command
package project

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/fillcash/cmd/common"
	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/internal/container"
)

// Cmd represents the project command
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Build the cash-flow ledger and workbook",
	Long: `Merge outputs/current_account_statement.csv, the fixed income and expenses of
the configuration and the card bills schedule into a daily ledger from January
of this year to December of next year. Writes outputs/silver_statements.csv and
outputs/format_sheet_DDMMYY.xlsx, whose balance column is made of formulas.`,
	Run: projectFunc,
}

func projectFunc(cmd *cobra.Command, args []string) {
	c := common.RequireContainer(root.GetContainer(), root.Log)
	if err := Execute(cmd.Context(), c); err != nil {
		root.Log.Fatalf("Error projecting cash flow: %v", err)
	}
}

// Execute runs the projection stage.
func Execute(ctx context.Context, c *container.Container) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.GetPipeline().Project(ctx)
	if err != nil {
		return err
	}
	common.ReportProjection(res, c.GetLogger())
	return nil
}
