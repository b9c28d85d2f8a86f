package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/trafficnode/internal/clock"
	"github.com/smazurov/trafficnode/internal/config"
	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/logging"
	"github.com/smazurov/trafficnode/internal/shiftreg"
	"github.com/spf13/cobra"
)

// CreateSimulateCmd creates the simulate command.
func CreateSimulateCmd() *cobra.Command {
	var ticks int
	var intersectionFile string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the countdown against in-memory chains",
		Long: `Runs the controller in standard mode without hardware or timing and prints one line per tick ` +
			`with every arm's phase, countdown and last latched frame.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ticks < 0 {
				return fmt.Errorf("ticks must be non-negative, got %d", ticks)
			}
			logging.Initialize(logging.Config{Level: logLevel, Format: "text"})

			in, err := config.LoadIntersection(intersectionFile)
			if err != nil {
				return err
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), in, ticks)
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 20, "Number of countdown ticks to run")
	cmd.Flags().StringVar(&intersectionFile, "intersection", "intersection.toml", "Intersection layout file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")
	return cmd
}

func simulate(ctx context.Context, w io.Writer, in config.Intersection, ticks int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	arms, err := in.BuildArms()
	if err != nil {
		return err
	}
	memories := make([]*shiftreg.Memory, len(arms))
	chains := make([]shiftreg.Chain, len(arms))
	for i := range arms {
		memories[i] = shiftreg.NewMemory(1)
		chains[i] = memories[i]
	}

	ctrl, err := controller.New(controller.Config{
		Arms:        arms,
		Chains:      chains,
		Hours:       clock.NewFixed(12),
		Sleeper:     controller.NoSleep,
		Refresh:     controller.Refresh{Cycles: 1, Interval: controller.DefaultRefreshInterval},
		InitialMode: controller.Standard,
		Logger:      logging.GetLogger("controller"),
	})
	if err != nil {
		return err
	}

	writeTick(w, ctrl.Status(), memories)
	for range ticks {
		if err := ctrl.Tick(ctx); err != nil {
			return err
		}
		writeTick(w, ctrl.Status(), memories)
	}
	return nil
}

// writeTick prints the state after a tick. The frame shown is the last one
// latched, which in standard mode is always the ones digit.
func writeTick(w io.Writer, st controller.Status, memories []*shiftreg.Memory) {
	cols := make([]string, len(st.Arms))
	for i, a := range st.Arms {
		latched := "----"
		if f, ok := memories[i].Last(); ok {
			latched = f.String()
		}
		cols[i] = fmt.Sprintf("%-6s %-6s %3d %s", a.Name, a.Phase, a.Remaining, latched)
	}
	fmt.Fprintf(w, "%5d  %s\n", st.Ticks, strings.Join(cols, " | "))
}
