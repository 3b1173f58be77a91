package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/graemedouglas/cbmark"
)

func newCompareCmd(v *viper.Viper) *cobra.Command {
	var runs int

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare resolution estimates across policies and runs",
		Long: `Estimates resolution with every policy, several times each, and prints the
results side by side. Estimates from an idle host should agree to within an
order of magnitude.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if runs < 1 {
				return fmt.Errorf("%w: runs must be >= 1, got %d", cbmark.ErrInvalidArgument, runs)
			}
			return v.BindPFlag("iterations", cmd.Flags().Lookup("iterations"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, v, runs)
		},
	}

	compareCmd.Flags().Int("iterations", 1000, "number of empty trials per estimate")
	compareCmd.Flags().IntVar(&runs, "runs", 2, "estimates per policy")
	return compareCmd
}

func runCompare(cmd *cobra.Command, v *viper.Viper, runs int) error {
	iterations := v.GetInt("iterations")

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Policy", "Run", "Wall s", "Wall ns", "User s", "User us", "Kernel s", "Kernel us")

	for _, policy := range []cbmark.Policy{cbmark.MaxOrderOfMagnitude, cbmark.AverageCeiling} {
		tm, err := newTimer(cmd, v, cbmark.WithPolicy(policy))
		if err != nil {
			return err
		}
		for run := 1; run <= runs; run++ {
			res, err := tm.Resolution(iterations)
			if err != nil {
				return err
			}
			row := []string{policy.String(), strconv.Itoa(run)}
			for _, f := range []int64{res.WallSec, res.WallNsec, res.UserSec, res.UserUsec, res.KernelSec, res.KernelUsec} {
				row = append(row, strconv.FormatInt(f, 10))
			}
			if err := table.Append(row); err != nil {
				return fmt.Errorf("failed to add row: %w", err)
			}
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
