package renderer

import (
	"bytes"
	"fmt"

	"github.com/amey1907/papertrade"
	md "github.com/nao1215/markdown"
)

// LedgerEntry renders one cash movement as a single line.
func LedgerEntry(e papertrade.Entry) string {
	switch e.Action {
	case papertrade.ActionFee:
		return fmt.Sprintf("%s %s fee %s, balance %s",
			e.ID, e.At.Format("2006-01-02"), e.Fee, e.Balance)
	default:
		return fmt.Sprintf("%s %s %s %s x%s @ %s, cash %s, balance %s",
			e.ID, e.At.Format("2006-01-02"), e.Action, e.Symbol, e.Quantity,
			e.Price, e.CashImpact.SignedString(), e.Balance)
	}
}

// LedgerMarkdown renders a book's full cash ledger as a table.
func LedgerMarkdown(name string, l *papertrade.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Ledger: %s", name))
	doc.PlainText(fmt.Sprintf("Opening balance %s.", l.Opening()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Id", "Date", "Action", "Symbol", "Qty", "Price", "Cash Impact", "Balance"},
	}
	for _, e := range l.Entries() {
		table.Rows = append(table.Rows, []string{
			e.ID,
			e.At.Format("2006-01-02"),
			string(e.Action),
			e.Symbol,
			e.Quantity.String(),
			e.Price.String(),
			e.CashImpact.SignedString(),
			e.Balance.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// TradeList renders proposed trades as an ordered list, for review before
// applying.
func TradeList(trades []papertrade.ProposedTrade) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Proposed Trades")
	if len(trades) == 0 {
		doc.PlainText("Nothing to do.")
		return doc.String()
	}
	var lines []string
	for _, t := range trades {
		price := "at market"
		if !t.SuggestedPrice.IsZero() {
			price = "@ " + t.SuggestedPrice.String()
		}
		lines = append(lines, fmt.Sprintf("%s %s x%s %s (%s)",
			t.Action, t.Instrument.Symbol, t.Quantity, price, t.Reason))
	}
	doc.OrderedList(lines...)
	return doc.String()
}
