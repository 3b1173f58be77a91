package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newResolutionCmd(v *viper.Viper) *cobra.Command {
	resolutionCmd := &cobra.Command{
		Use:   "resolution",
		Short: "Estimate the resolution of the host clocks",
		Long: `Runs empty start/end pairs and folds them into a per-channel resolution
estimate using the selected policy:

  max  largest value seen, rounded up to the next power of ten
  avg  running mean, rounded up to the next integer`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlag("iterations", cmd.Flags().Lookup("iterations"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := newTimer(cmd, v)
			if err != nil {
				return err
			}
			res, err := tm.Resolution(v.GetInt("iterations"))
			if err != nil {
				return err
			}
			return tm.Print(res)
		},
	}

	resolutionCmd.Flags().Int("iterations", 1000, "number of empty trials")
	return resolutionCmd
}
