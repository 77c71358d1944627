package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/schedule"
)

// WriteHTML renders the power draw of each day type as a line chart.
func WriteHTML(w io.Writer, load schedule.BuildingLoad) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    load.Ruleset.Name,
			Subtitle: fmt.Sprintf("peak %s kW", formatFloat(load.PeakKW)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Until"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Power (kW)"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	var xAxis []string
	for _, p := range load.Days.Weekday.Points {
		xAxis = append(xAxis, p.Until())
	}
	line.SetXAxis(xAxis)
	for _, d := range model.DayTypes {
		day := load.Days.Get(d)
		data := make([]opts.LineData, len(day.Points))
		for i, p := range day.Points {
			data[i] = opts.LineData{Value: p.Value * load.PeakKW}
		}
		line.AddSeries(day.Name, data)
	}
	return line.Render(w)
}
