// Package extract handles the statement extraction command
package extract

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/fillcash/cmd/common"
	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/internal/container"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the configured bank statement",
	Long: `Read statements/<bankname>/file.<statement_format> with the extractor for the
configured bank and write outputs/current_account_statement.csv.

Supported statements: itau (csv, pdf), bradesco (csv), c6 (csv), camt (xml).`,
	Run: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) {
	c := common.RequireContainer(root.GetContainer(), root.Log)
	if err := Execute(cmd.Context(), c); err != nil {
		root.Log.Fatalf("Error extracting statement: %v", err)
	}
}

// Execute runs the extraction stage.
func Execute(ctx context.Context, c *container.Container) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.GetPipeline().Extract(ctx)
	if err != nil {
		return err
	}
	common.ReportExtraction(res, c.GetLogger())
	return nil
}
