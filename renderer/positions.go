package renderer

import (
	"bytes"
	"fmt"

	"github.com/amey1907/papertrade"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders every book's positions, open then closed.
func PositionsMarkdown(r *papertrade.DailyReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Positions")
	for _, b := range r.Books {
		doc.H2(b.Metrics.Name)
		if len(b.Open) == 0 && len(b.Closed) == 0 {
			doc.PlainText("No positions.")
			continue
		}
		if len(b.Open) > 0 {
			doc.Table(positionsTable(b.Open))
		}
		if len(b.Closed) > 0 {
			doc.H3("Closed")
			doc.Table(closedTable(b.Closed))
		}
	}
	return doc.String()
}

func positionsTable(positions []*papertrade.Position) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Symbol", "Qty", "Entry", "Last", "P&L", "Greeks"},
	}
	for _, p := range positions {
		last := p.CurrentPrice.String()
		if p.Stale {
			last += " *"
		}
		greeks := ""
		if p.Instrument.IsOption() {
			greeks = p.Greeks().String()
		}
		table.Rows = append(table.Rows, []string{
			p.Instrument.Symbol,
			p.Quantity.SignedString(),
			p.EntryPrice.String(),
			last,
			p.PnL().SignedString(),
			greeks,
		})
	}
	return table
}

func closedTable(positions []*papertrade.Position) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight,
		},
		Header: []string{"Symbol", "Qty", "Entry", "Exit", "Closed On", "Realized"},
	}
	for _, p := range positions {
		table.Rows = append(table.Rows, []string{
			p.Instrument.Symbol,
			p.Quantity.SignedString(),
			p.EntryPrice.String(),
			p.ExitPrice.String(),
			p.ExitDate.String(),
			p.PnL().SignedString(),
		})
	}
	return table
}

// GreeksMarkdown renders the portfolio and per-book risk sensitivities.
func GreeksMarkdown(r *papertrade.DailyReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Risk Exposure")
	doc.Table(greeksTable(r.Snapshot.Greeks))
	for _, b := range r.Books {
		if b.Metrics.Greeks.IsZero() {
			continue
		}
		doc.H2(b.Metrics.Name)
		doc.Table(greeksTable(b.Metrics.Greeks))
	}
	doc.PlainText(fmt.Sprintf("_As of %s._", r.Time.Format("2006-01-02 15:04:05")))
	return doc.String()
}
