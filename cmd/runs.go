package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/runlog"
)

var runsFlags struct {
	station string
	status  string
	since   time.Duration
	limit   int
	json    bool
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past pipeline runs from the run log",
	RunE:  listRuns,
}

func init() {
	f := runsCmd.Flags()
	f.StringVar(&runsFlags.station, "station", "", "only runs for this station type")
	f.StringVar(&runsFlags.status, "status", "", "only runs with this status (ok, error)")
	f.DurationVar(&runsFlags.since, "since", 0, "only runs newer than this duration")
	f.IntVar(&runsFlags.limit, "limit", 20, "maximum number of runs, newest kept")
	f.BoolVar(&runsFlags.json, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return fmt.Errorf("run log: %w", err)
	}
	defer func() { _ = store.Close() }()

	q := runlog.RunQuery{Status: runsFlags.status, Limit: runsFlags.limit}
	if runsFlags.station != "" {
		st, err := model.ParseStationType(runsFlags.station)
		if err != nil {
			return err
		}
		q.Station = st
	}
	if runsFlags.since > 0 {
		q.Start = time.Now().Add(-runsFlags.since)
	}
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}
	if runsFlags.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	return printRuns(cmd.OutOrStdout(), recs)
}

func printRuns(w io.Writer, recs []runlog.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tFAMILY\tSTATION\tEV%\tSTATUS\tPEAK kW\tERROR")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\t%.3f\t%s\n",
			r.Timestamp.Format(time.RFC3339), r.ID, r.Family, r.Station, r.EVPercent, r.Status, r.PeakKW, r.Error)
	}
	return tw.Flush()
}
