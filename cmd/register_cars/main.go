package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/OCAP2/carscene/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ProgramName names the binary in usage text and log files.
const ProgramName = "register_cars"

// options holds flag values that are not routed through viper.
type options struct {
	root      string
	configDir string
	history   int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   ProgramName + " <car_name> [car_name...]",
		Short: "Register car models as scenes in a Godot project",
		Long: `register_cars wires car models into a Godot project.

For every car name it checks assets/models/<name>/<name>.glb, writes
scenes/cars/<name>.tscn if it does not exist yet, and adds the scene to the
ext_resource table and the car_scenes/car_names arrays of scenes/main.tscn.
Running it again with the same names changes nothing.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringVar(&opts.root, "root", ".", "Godot project root")
	flags.StringVar(&opts.configDir, "config", "", "directory holding "+config.FileName+" (default: project root)")
	flags.IntVar(&opts.history, "history", 0, "print the last N ledger entries and exit")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("ledger", false, "record the run in the registration ledger")

	_ = viper.BindPFlag("logLevel", flags.Lookup("log-level"))
	_ = viper.BindPFlag("ledger.enabled", flags.Lookup("ledger"))

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
