// Package run handles the full pipeline command
package run

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/fillcash/cmd/common"
	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/internal/container"
)

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Extract the statement, then project",
	Long:  `Run extract followed by project.`,
	Run:   runFunc,
}

func runFunc(cmd *cobra.Command, args []string) {
	c := common.RequireContainer(root.GetContainer(), root.Log)
	if err := Execute(cmd.Context(), c); err != nil {
		root.Log.Fatalf("Error running pipeline: %v", err)
	}
}

// Execute runs every stage.
func Execute(ctx context.Context, c *container.Container) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.GetLogger()
	log.Info("Starting pipeline")
	res, err := c.GetPipeline().Run(ctx)
	if err != nil {
		return err
	}
	common.ReportProjection(res, log)
	log.Info("Pipeline finished successfully")
	return nil
}
