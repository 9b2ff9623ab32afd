// Package plot draws HTML charts of Value Iteration runs and experiment
// results with go-echarts.
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/samuelfneumann/simpleenv/agent/valueiteration"
)

// Theme is the echarts theme used by all charts
const Theme = "shine"

func newLine(title, subtitle, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: Theme,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return line
}

func xAxis(n int) []string {
	x := make([]string, n)
	for i := range x {
		x[i] = fmt.Sprint(i + 1)
	}
	return x
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, value := range values {
		items[i] = opts.LineData{Value: value}
	}
	return items
}

// Convergence plots the delta of each sweep of the last training run of
// a value function
func Convergence(vf *valueiteration.ValueFunction) *charts.Line {
	deltas := vf.Deltas()
	subtitle := fmt.Sprintf("theta = %v, gamma = %v", vf.Config().Theta,
		vf.Config().Gamma)

	line := newLine("Value Iteration convergence", subtitle, "sweep", "delta")
	line.SetXAxis(xAxis(len(deltas))).AddSeries("delta", lineData(deltas))
	return line
}

// Values plots the value of each state after each sweep of the last
// training run of a value function
func Values(vf *valueiteration.ValueFunction) *charts.Line {
	trace := vf.Trace()

	line := newLine("State values", "", "sweep", "value")
	line.SetXAxis(xAxis(len(trace)))
	if len(trace) == 0 {
		return line
	}

	for s := range trace[0] {
		if vf.IsTerminal(s) {
			continue
		}
		series := make([]float64, len(trace))
		for i := range trace {
			series[i] = trace[i][s]
		}
		line.AddSeries(fmt.Sprintf("V(%d)", s), lineData(series))
	}
	return line
}

// Returns plots episodic returns
func Returns(returns []float64) *charts.Line {
	line := newLine("Episodic returns", "", "episode", "return")
	line.SetXAxis(xAxis(len(returns))).AddSeries("return", lineData(returns))
	return line
}

// Save renders charts to an HTML page
func Save(filename string, c ...components.Charter) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(c...)
	if err := page.Render(f); err != nil {
		return fmt.Errorf("save: could not render page: %w", err)
	}
	return nil
}
