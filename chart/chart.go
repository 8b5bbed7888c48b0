// Package chart renders the portfolio history as a self-contained HTML page
// of echarts graphs: the equity curve against initial capital, and the
// unrealized/realized P&L split.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/amey1907/papertrade"
)

const (
	chartWidth  = "1200px"
	chartHeight = "480px"

	colorValue      = "#3b82f6"
	colorCapital    = "#9ca3af"
	colorUnrealized = "#34d399"
	colorRealized   = "#fbbf24"
)

// WritePortfolio renders the history into w as a single HTML page.
func WritePortfolio(w io.Writer, history []*papertrade.PortfolioSnapshot) error {
	if len(history) == 0 {
		return fmt.Errorf("no history to chart")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(equityCurve(history), pnlLines(history))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("could not render portfolio chart: %w", err)
	}
	return nil
}

func timeline(history []*papertrade.PortfolioSnapshot) []string {
	xAxis := make([]string, 0, len(history))
	for _, s := range history {
		xAxis = append(xAxis, s.At.Format("2006-01-02 15:04"))
	}
	return xAxis
}

func equityCurve(history []*papertrade.PortfolioSnapshot) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Portfolio Value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
	)

	values := make([]opts.LineData, 0, len(history))
	capital := make([]opts.LineData, 0, len(history))
	for _, s := range history {
		values = append(values, opts.LineData{Value: s.Value().AsFloat()})
		capital = append(capital, opts.LineData{Value: s.TotalCapital.AsFloat()})
	}

	line.SetXAxis(timeline(history)).
		AddSeries("Value", values,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorValue, Width: 2}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})).
		AddSeries("Initial Capital", capital,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorCapital, Width: 1, Type: "dashed"}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return line
}

func pnlLines(history []*papertrade.PortfolioSnapshot) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "P&L"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	unrealized := make([]opts.LineData, 0, len(history))
	realized := make([]opts.LineData, 0, len(history))
	for _, s := range history {
		unrealized = append(unrealized, opts.LineData{Value: s.UnrealizedPnL.AsFloat()})
		realized = append(realized, opts.LineData{Value: s.RealizedPnL.AsFloat()})
	}

	line.SetXAxis(timeline(history)).
		AddSeries("Unrealized", unrealized,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorUnrealized, Width: 2}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})).
		AddSeries("Realized", realized,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorRealized, Width: 2}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return line
}
