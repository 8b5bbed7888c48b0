package papertrade

import (
	"time"
)

// DailyReport is the end-of-day digest of the whole portfolio: the fresh
// snapshot, the previous one for day-over-day deltas, and the per-book
// detail the renderer turns into tables.
type DailyReport struct {
	Date Date
	Time time.Time

	Snapshot *PortfolioSnapshot
	Previous *PortfolioSnapshot // nil on the first report

	Conditions Conditions
	Books      []BookReport
}

// BookReport is one strategy's contribution to the daily report.
type BookReport struct {
	Metrics   StrategyMetrics
	Open      []*Position
	Closed    []*Position
	LastMoves []Entry // most recent ledger entries, oldest first
}

// recentMoves is how many ledger entries a daily report shows per book.
const recentMoves = 10

// BuildDailyReport assembles the report from an accountant's latest
// revaluation. It fails with ErrNotYetValued before the first Revalue.
func BuildDailyReport(a *Accountant, previous *PortfolioSnapshot, c Conditions) (*DailyReport, error) {
	snap, err := a.Latest()
	if err != nil {
		return nil, err
	}
	r := &DailyReport{
		Date:       NewDate(snap.At.Date()),
		Time:       snap.At,
		Snapshot:   snap,
		Previous:   previous,
		Conditions: c,
	}
	for _, s := range a.Strategies() {
		br := BookReport{Metrics: s.Book().Metrics()}
		for _, p := range s.Book().Positions() {
			if p.IsOpen() {
				br.Open = append(br.Open, p)
			} else {
				br.Closed = append(br.Closed, p)
			}
		}
		entries := s.Book().Ledger().Entries()
		if len(entries) > recentMoves {
			entries = entries[len(entries)-recentMoves:]
		}
		br.LastMoves = entries
		r.Books = append(r.Books, br)
	}
	return r, nil
}

// DayChange is the value move since the previous report, zero on the first.
func (r *DailyReport) DayChange() Money {
	if r.Previous == nil {
		return Rupees(0)
	}
	return r.Snapshot.Value().Sub(r.Previous.Value())
}

// DayChangePct is the day move in percent of the previous value.
func (r *DailyReport) DayChangePct() float64 {
	if r.Previous == nil || r.Previous.Value().IsZero() {
		return 0
	}
	return r.DayChange().AsFloat() / r.Previous.Value().AsFloat() * 100
}

// StaleCount is the number of open positions priced off a carried-over
// quote.
func (r *DailyReport) StaleCount() int {
	n := 0
	for _, b := range r.Books {
		n += b.Metrics.StaleCount
	}
	return n
}
