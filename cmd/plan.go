package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evload/app"
	"github.com/kilianp07/evload/config"
)

var planFlags struct {
	from     string
	days     int
	timezone string
	format   string
	out      string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Expand the schedule into a dated plan over a calendar window",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planFlags.from, "from", "", "first day, YYYY-MM-DD (default today)")
	f.IntVar(&planFlags.days, "days", 0, "number of days override")
	f.StringVar(&planFlags.timezone, "tz", "", "IANA timezone override")
	f.StringVar(&planFlags.format, "format", "", "output format override (json, csv)")
	f.StringVarP(&planFlags.out, "out", "o", "", "output file override")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	tweak := func(cfg *config.Config) error {
		flags := cmd.Flags()
		if flags.Changed("from") {
			cfg.Plan.Start = planFlags.from
		}
		if flags.Changed("days") {
			cfg.Plan.Days = planFlags.days
		}
		if flags.Changed("tz") {
			cfg.Plan.Timezone = planFlags.timezone
		}
		if flags.Changed("format") {
			cfg.Output.Format = planFlags.format
		}
		if flags.Changed("out") {
			cfg.Output.Path = planFlags.out
		}
		return nil
	}
	return withService(tweak, func(svc *app.Service) error {
		_, err := svc.Plan(ctx, time.Now())
		return err
	})
}
