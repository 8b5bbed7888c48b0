// Package renderer turns report structs into markdown, ready for the
// terminal, a file, or a git-hosted daily log.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/amey1907/papertrade"
	md "github.com/nao1215/markdown"
)

// DailyMarkdown renders the end-of-day portfolio digest.
func DailyMarkdown(r *papertrade.DailyReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Daily Report %s", r.Date))

	snap := r.Snapshot
	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Portfolio Value"), md.Bold(snap.Value().String())},
		Rows: [][]string{
			{"Total Capital", snap.TotalCapital.String()},
			{"Cash (all books)", snap.Cash.String()},
			{"Invested", snap.Invested.String()},
			{"Unrealized P&L", snap.UnrealizedPnL.SignedString()},
			{"Realized P&L", snap.RealizedPnL.SignedString()},
			{"Return", fmt.Sprintf("%+.2f%%", snap.ReturnPct())},
		},
	}
	if r.Previous != nil {
		summary.Rows = append(summary.Rows, []string{
			"Day Change",
			fmt.Sprintf("%s (%+.2f%%)", r.DayChange().SignedString(), r.DayChangePct()),
		})
	}
	doc.Table(summary)

	if r.Conditions.VIX != 0 || !r.Conditions.Spot.IsZero() {
		doc.H2("Market")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Indicator", "Level"},
			Rows: [][]string{
				{"NIFTY", r.Conditions.Spot.String()},
				{"India VIX", fmt.Sprintf("%.2f", r.Conditions.VIX)},
			},
		})
	}

	if !snap.Greeks.IsZero() {
		doc.H2("Portfolio Greeks")
		doc.Table(greeksTable(snap.Greeks))
	}

	for _, b := range r.Books {
		doc.H2(b.Metrics.Name)
		doc.Table(metricsTable(b.Metrics))
		if len(b.Open) > 0 {
			doc.Table(positionsTable(b.Open))
		}
		if len(b.LastMoves) > 0 {
			doc.H3("Recent Moves")
			var moves []string
			for _, e := range b.LastMoves {
				moves = append(moves, LedgerEntry(e))
			}
			doc.BulletList(moves...)
		}
	}

	if n := r.StaleCount(); n > 0 {
		doc.PlainTextf("> %d position(s) priced off a carried-over quote.", n)
	}

	return doc.String()
}

func metricsTable(m papertrade.StrategyMetrics) md.TableSet {
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Sleeve Value"), md.Bold(m.Value().String())},
		Rows: [][]string{
			{"Cash", m.Cash.String()},
			{"Invested", m.Invested.String()},
			{"Unrealized P&L", m.UnrealizedPnL.SignedString()},
			{"Realized P&L", m.RealizedPnL.SignedString()},
			{"Open Positions", fmt.Sprintf("%d", m.OpenCount)},
		},
	}
}

func greeksTable(g papertrade.Greeks) md.TableSet {
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Delta", "Gamma", "Theta/day", "Vega/pt"},
		Rows: [][]string{{
			fmt.Sprintf("%+.3f", g.Delta),
			fmt.Sprintf("%+.5f", g.Gamma),
			fmt.Sprintf("%+.1f", g.Theta),
			fmt.Sprintf("%+.1f", g.Vega),
		}},
	}
}
