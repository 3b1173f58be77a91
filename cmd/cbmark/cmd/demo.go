package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/graemedouglas/cbmark"
)

// sink keeps the timed loops from being optimised away.
var sink int

func newDemoCmd(v *viper.Viper) *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Time a few summation loops and report clock resolution",
		Long: `Times the sums of the first 100, 100000 and 1000000 integers, printing the
elapsed wall-clock, user and kernel time of each, then prints a resolution
estimate.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// demo estimates from a single empty trial unless told otherwise.
			v.SetDefault("iterations", 1)
			return v.BindPFlag("iterations", cmd.Flags().Lookup("iterations"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := newTimer(cmd, v)
			if err != nil {
				return err
			}
			return runDemo(cmd, tm, v.GetInt("iterations"))
		},
	}

	demoCmd.Flags().Int("iterations", 1, "empty trials for the resolution estimate")
	return demoCmd
}

func runDemo(cmd *cobra.Command, tm *cbmark.Timer, iterations int) error {
	out := cmd.OutOrStdout()

	for _, n := range []int{100, 100_000, 1_000_000} {
		fmt.Fprintf(out, "Timing sum of first %d numbers.\n", n)

		var trial cbmark.Trial
		if err := tm.Start(&trial); err != nil {
			return err
		}
		sum := 0
		for i := 0; i < n; i++ {
			sum += i
		}
		sink = sum
		if err := tm.End(&trial); err != nil {
			return err
		}
		if err := tm.Print(&trial); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Getting system resolution.")
	res, err := tm.Resolution(iterations)
	if err != nil {
		return err
	}
	return tm.Print(res)
}
