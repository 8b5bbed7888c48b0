package papertrade

import (
	"errors"
	"testing"
	"time"
)

var tradeTime = time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC)

func TestLedgerRecord(t *testing.T) {
	l := NewLedger(Rupees(500000))

	tests := []struct {
		action  Action
		symbol  string
		qty     Quantity
		price   Money
		fee     Money
		impact  Money
		balance Money
	}{
		// Long entry: cash out, gross plus fee.
		{ActionOpenLong, "NIFTY26MAR24600CE", Q(25), Rupees(350), Rupees(20), Rupees(-8770), Rupees(491230)},
		// Short entry: premium in, fee out.
		{ActionOpenShort, "NIFTY26MAR25200CE", Q(50), Rupees(120), Rupees(20), Rupees(5980), Rupees(497210)},
		// Sell-to-close the long: premium in, fee out.
		{ActionClose, "NIFTY26MAR24600CE", Q(25), Rupees(380), Rupees(20), Rupees(9480), Rupees(506690)},
		// Buy-to-cover the short: cash out, gross plus fee.
		{ActionClose, "NIFTY26MAR25200CE", Q(-50), Rupees(80), Rupees(20), Rupees(-4020), Rupees(502670)},
		// Standalone fee.
		{ActionFee, "", Q(0), Rupees(0), Rupees(100), Rupees(-100), Rupees(502570)},
	}
	for i, tc := range tests {
		e, err := l.Record(tradeTime, tc.action, tc.symbol, tc.qty, tc.price, tc.fee)
		if err != nil {
			t.Fatalf("entry %d: Record() error = %v", i, err)
		}
		if !e.CashImpact.Equal(tc.impact) {
			t.Errorf("entry %d (%s): cash impact = %s, want %s", i, tc.action, e.CashImpact, tc.impact)
		}
		if !e.Balance.Equal(tc.balance) {
			t.Errorf("entry %d (%s): balance = %s, want %s", i, tc.action, e.Balance, tc.balance)
		}
		if e.Quantity.IsNegative() {
			t.Errorf("entry %d: stored quantity %s is negative, want absolute", i, e.Quantity)
		}
	}
	if !l.Balance().Equal(Rupees(502570)) {
		t.Errorf("final balance = %s, want 502570", l.Balance())
	}
}

func TestLedgerIDs(t *testing.T) {
	l := NewLedger(Rupees(1000))
	e1, _ := l.Record(tradeTime, ActionFee, "", Q(0), Rupees(0), Rupees(1))
	e2, _ := l.Record(tradeTime, ActionFee, "", Q(0), Rupees(0), Rupees(1))
	if e1.ID != "VT0001" || e2.ID != "VT0002" {
		t.Errorf("IDs = %q, %q, want VT0001, VT0002", e1.ID, e2.ID)
	}
}

func TestLedgerReplay(t *testing.T) {
	l := NewLedger(Rupees(500000))
	l.Record(tradeTime, ActionOpenLong, "RELIANCE", Q(100), Rupees(2500), Rupees(20))
	l.Record(tradeTime, ActionOpenShort, "NIFTY26MAR25200CE", Q(50), Rupees(120), Rupees(20))
	l.Record(tradeTime, ActionClose, "RELIANCE", Q(100), Rupees(2550), Rupees(20))

	if err := l.Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}

	// Tamper with a recorded balance: the audit must catch it.
	l.entries[1].Balance = l.entries[1].Balance.Add(Rupees(1))
	if err := l.Replay(); err == nil {
		t.Error("Replay() passed over a tampered balance")
	}
}

func TestLedgerRestore(t *testing.T) {
	l := NewLedger(Rupees(500000))
	l.Record(tradeTime, ActionOpenLong, "TCS", Q(50), Rupees(3800), Rupees(20))
	l.Record(tradeTime, ActionClose, "TCS", Q(50), Rupees(3900), Rupees(20))
	saved := l.Entries()

	restored := NewLedger(Rupees(500000))
	if err := restored.restore(saved); err != nil {
		t.Fatalf("restore() error = %v", err)
	}
	if !restored.Balance().Equal(l.Balance()) {
		t.Errorf("restored balance = %s, want %s", restored.Balance(), l.Balance())
	}
	e, err := restored.Record(tradeTime, ActionFee, "", Q(0), Rupees(0), Rupees(10))
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != "VT0003" {
		t.Errorf("ID after restore = %q, want VT0003", e.ID)
	}
}

func TestLedgerRecordRejectsBadInput(t *testing.T) {
	l := NewLedger(Rupees(1000))
	if _, err := l.Record(tradeTime, ActionOpenLong, "X", Q(0), Rupees(10), Rupees(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero quantity error = %v, want ErrInvalidInput", err)
	}
	if _, err := l.Record(tradeTime, ActionOpenLong, "X", Q(1), Rupees(0), Rupees(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero price error = %v, want ErrInvalidInput", err)
	}
	if _, err := l.Record(tradeTime, ActionOpenShort, "X", Q(1), Rupees(0), Rupees(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero short price error = %v, want ErrInvalidInput", err)
	}
	if _, err := l.Record(tradeTime, ActionClose, "X", Q(1), Rupees(-1), Rupees(0)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative close price error = %v, want ErrInvalidInput", err)
	}
	if _, err := l.Record(tradeTime, ActionFee, "", Q(0), Rupees(0), Rupees(-5)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative fee error = %v, want ErrInvalidInput", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after rejected records, want 0", l.Len())
	}
}

// TestLedgerCloseAtZero books a worthless expiry: the close is valid at a
// zero price and the fee is its whole cash impact.
func TestLedgerCloseAtZero(t *testing.T) {
	l := NewLedger(Rupees(10000))
	l.Record(tradeTime, ActionOpenLong, "NIFTY26MAR26000CE", Q(10), Rupees(150), Rupees(20))

	e, err := l.Record(tradeTime, ActionClose, "NIFTY26MAR26000CE", Q(10), Rupees(0), Rupees(20))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !e.CashImpact.Equal(Rupees(-20)) {
		t.Errorf("cash impact = %s, want -20", e.CashImpact)
	}
	if !l.Balance().Equal(Rupees(10000 - 1520 - 20)) {
		t.Errorf("balance = %s, want %s", l.Balance(), Rupees(8460))
	}
	if err := l.Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}
}
