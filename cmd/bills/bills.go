// Package bills handles the card bill schedule command
package bills

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/fillcash/cmd/common"
	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/internal/container"
	"fjacquet/fillcash/internal/logging"
)

// Force allows replacing an existing schedule
var Force bool

// Cmd represents the bills command
var Cmd = &cobra.Command{
	Use:   "bills",
	Short: "Generate the future card bills schedule",
	Long: `Write one zero-amount bill per configured card for each of the next months
(bills.months, 12 by default) starting with the current month. Fill in the
amounts before running project; an existing schedule is kept unless --force
is given. The file is YAML unless paths.bills_file ends in .xlsx, in which
case a workbook is written for editing in a spreadsheet.`,
	Run: billsFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&Force, "force", "f", false, "Overwrite an existing bills file")
}

func billsFunc(cmd *cobra.Command, args []string) {
	c := common.RequireContainer(root.GetContainer(), root.Log)
	if err := Execute(cmd.Context(), c, Force); err != nil {
		root.Log.Fatalf("Error generating card bills: %v", err)
	}
}

// Execute writes the schedule.
func Execute(ctx context.Context, c *container.Container, force bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := c.GetPipeline().GenerateBills(ctx, force)
	if err != nil {
		return err
	}
	c.GetLogger().Info("Card bills schedule generated",
		logging.F(logging.FieldOutputFile, c.GetBillStore().Path()),
		logging.F(logging.FieldCount, n))
	return nil
}
