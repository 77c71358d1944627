package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/evload/app"
	"github.com/kilianp07/evload/config"
)

var scheduleFlags struct {
	station   string
	evPercent float64
	format    string
	out       string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute one schedule and write it to the configured output",
	RunE:  runSchedule,
}

func init() {
	f := scheduleCmd.Flags()
	f.StringVar(&scheduleFlags.station, "station", "", "station type override (home, work, public)")
	f.Float64Var(&scheduleFlags.evPercent, "ev-percent", 0, "EV adoption percent override")
	f.StringVar(&scheduleFlags.format, "format", "", "output format override (json, csv, idf, html)")
	f.StringVarP(&scheduleFlags.out, "out", "o", "", "output file override")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	tweak := func(cfg *config.Config) error {
		flags := cmd.Flags()
		if flags.Changed("station") {
			cfg.Charging.StationType = scheduleFlags.station
		}
		if flags.Changed("ev-percent") {
			cfg.Charging.EVPercent = scheduleFlags.evPercent
		}
		if flags.Changed("format") {
			cfg.Output.Format = scheduleFlags.format
		}
		if flags.Changed("out") {
			cfg.Output.Path = scheduleFlags.out
		}
		return nil
	}
	return withService(tweak, func(svc *app.Service) error {
		_, err := svc.Schedule(ctx)
		return err
	})
}
