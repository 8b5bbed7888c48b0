package renderer

import (
	"bytes"
	"fmt"

	"github.com/amey1907/papertrade"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the persisted snapshot stream as an equity table,
// oldest first.
func HistoryMarkdown(history []*papertrade.PortfolioSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio History")
	if len(history) == 0 {
		doc.PlainText("No revaluations recorded yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "Value", "Unrealized", "Realized", "Return"},
	}
	for _, s := range history {
		table.Rows = append(table.Rows, []string{
			s.At.Format("2006-01-02 15:04"),
			s.Value().String(),
			s.UnrealizedPnL.SignedString(),
			s.RealizedPnL.SignedString(),
			fmt.Sprintf("%+.2f%%", s.ReturnPct()),
		})
	}
	doc.Table(table)
	return doc.String()
}
