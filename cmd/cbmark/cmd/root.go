package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/graemedouglas/cbmark"
	"github.com/graemedouglas/cbmark/internal/clock"
)

// Execute runs the cbmark command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "cbmark",
		Short: "Time code in wall-clock and CPU time",
		Long: `cbmark records wall-clock, user CPU and kernel CPU time around a region of
code and estimates the smallest increment each of those clocks can resolve.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cbmark/config.yaml)")
	flags.String("policy", "max", "resolution policy: max or avg")
	flags.String("clock", "system", "clock source: system or process")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	_ = v.BindPFlag("policy", flags.Lookup("policy"))
	_ = v.BindPFlag("clock", flags.Lookup("clock"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.SetDefault("iterations", 1000)

	rootCmd.AddCommand(newDemoCmd(v))
	rootCmd.AddCommand(newResolutionCmd(v))
	rootCmd.AddCommand(newCompareCmd(v))
	return rootCmd
}

// initConfig reads in config file and ENV variables if set
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".cbmark"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CBMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// newLogger writes human-readable logs to w, coloured only on a terminal.
func newLogger(v *viper.Viper, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newTimer builds a Timer from the resolved configuration, printing to the
// command's output stream.
func newTimer(cmd *cobra.Command, v *viper.Viper, extra ...cbmark.Option) (*cbmark.Timer, error) {
	policy, err := cbmark.ParsePolicy(v.GetString("policy"))
	if err != nil {
		return nil, err
	}
	src, err := clock.Lookup(v.GetString("clock"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cbmark.ErrClockUnavailable, err)
	}
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	opts := []cbmark.Option{
		cbmark.WithPolicy(policy),
		cbmark.WithClock(src),
		cbmark.WithOutput(cmd.OutOrStdout()),
		cbmark.WithLogger(logger),
	}
	tm, err := cbmark.New(append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("clock", tm.ClockName()).Str("policy", tm.Policy().String()).Msg("timer ready")
	return tm, nil
}
