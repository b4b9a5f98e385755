package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/soundboard/internal/recorder"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List microphones",
	Long:  `List capture devices. Use a name (or part of one) as recorder.device in the config.`,
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, _ []string) error {
	devices, err := recorder.EnumerateDevices()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(devices) == 0 {
		fmt.Fprintln(out, "No capture devices found")
		return nil
	}
	for _, d := range devices {
		marker := " "
		if d.Default {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %2d  %s\n", marker, d.Index, d.Name)
	}
	if cfg.Recorder.Device != "" {
		fmt.Fprintf(out, "\nConfigured: %s\n", cfg.Recorder.Device)
	}
	return nil
}
