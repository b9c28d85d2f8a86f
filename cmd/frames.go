package cmd

import (
	"fmt"
	"io"

	"github.com/smazurov/trafficnode/internal/config"
	"github.com/smazurov/trafficnode/internal/frame"
	"github.com/smazurov/trafficnode/internal/signal"
	"github.com/spf13/cobra"
)

// CreateFramesCmd creates the frames command.
func CreateFramesCmd() *cobra.Command {
	var phaseName string
	var remaining int
	var armIndex int
	var intersectionFile string

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Print the packed frames for a phase and countdown",
		Long: `Renders the tens and ones frames one arm would send for the given phase and countdown ` +
			`and prints them as hex words and per-channel levels, for checking a board against the wiring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phase, err := signal.ParsePhase(phaseName)
			if err != nil {
				return err
			}
			if remaining < 0 || remaining > signal.MaxDuration {
				return fmt.Errorf("remaining %d outside 0..%d", remaining, signal.MaxDuration)
			}

			in, err := config.LoadIntersection(intersectionFile)
			if err != nil {
				return err
			}
			arms, err := in.BuildArms()
			if err != nil {
				return err
			}
			if armIndex < 0 || armIndex >= len(arms) {
				return fmt.Errorf("arm %d outside 0..%d", armIndex, len(arms)-1)
			}

			arm := arms[armIndex]
			arm.SetPhase(phase)
			arm.SetRemaining(remaining)
			writeFrames(cmd.OutOrStdout(), arm, channelLabels(in.Arms[armIndex]))
			return nil
		},
	}

	cmd.Flags().StringVar(&phaseName, "phase", "red", "Phase to render (red, green, yellow)")
	cmd.Flags().IntVar(&remaining, "remaining", 0, "Countdown value to display")
	cmd.Flags().IntVar(&armIndex, "arm", 0, "Index of the arm whose channel map is used")
	cmd.Flags().StringVar(&intersectionFile, "intersection", "intersection.toml", "Intersection layout file")
	return cmd
}

// channelLabels names every wired channel of an arm.
func channelLabels(a config.ArmConfig) [frame.Width]string {
	var labels [frame.Width]string
	for i, ch := range a.SegmentChannels {
		labels[ch] = "seg " + string(rune('a'+i))
	}
	for i, ch := range a.DigitChannels {
		labels[ch] = [...]string{"tens enable", "ones enable"}[i]
	}
	for i, ch := range a.LightChannels {
		labels[ch] = signal.Phase(i).String() + " light"
	}
	return labels
}

func writeFrames(w io.Writer, arm *signal.Arm, labels [frame.Width]string) {
	tens, ones := arm.Frames()
	fmt.Fprintf(w, "arm %s phase %s remaining %d\n", arm.Name(), arm.Phase(), arm.Remaining())
	fmt.Fprintf(w, "tens  %s  %s\n", tens, frame.Unpack(tens))
	fmt.Fprintf(w, "ones  %s  %s\n", ones, frame.Unpack(ones))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-4s %-12s %-4s %-4s\n", "ch", "function", "tens", "ones")

	tc, oc := frame.Unpack(tens), frame.Unpack(ones)
	for ch := range frame.Width {
		label := labels[ch]
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%-4d %-12s %-4d %-4d\n", ch, label, level(tc[ch]), level(oc[ch]))
	}
}

func level(high bool) int {
	if high {
		return 1
	}
	return 0
}
