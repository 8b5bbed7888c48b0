package papertrade

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestInitStore(t *testing.T) {
	dir := t.TempDir()
	if err := InitStore(dir, DefaultConfig()); err != nil {
		t.Fatalf("InitStore() error = %v", err)
	}
	if err := InitStore(dir, DefaultConfig()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second InitStore() error = %v, want ErrAlreadyInitialized", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.TotalCapital.Equal(Rupees(500000)) || cfg.RiskCeiling != 0.20 {
		t.Errorf("round-tripped config = %+v", cfg)
	}
}

func TestSaveLoadBook(t *testing.T) {
	dir := t.TempDir()
	s := NewVolatilityArbitrage(Rupees(38550), Rupees(20))
	if err := s.Book().InitializePositions(tradeTime, s.Seeds(Conditions{})); err != nil {
		t.Fatal(err)
	}
	if err := SaveBook(dir, s.Book()); err != nil {
		t.Fatalf("SaveBook() error = %v", err)
	}

	got, err := LoadBook(dir, s.Name(), Rupees(38550), Rupees(20))
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if !got.Initialized() {
		t.Error("loaded book is not marked initialized")
	}
	if !got.Cash().Equal(s.Book().Cash()) {
		t.Errorf("loaded cash = %s, want %s", got.Cash(), s.Book().Cash())
	}
	if len(got.Positions()) != 6 {
		t.Errorf("loaded %d positions, want 6", len(got.Positions()))
	}
	if err := got.Ledger().Replay(); err != nil {
		t.Errorf("Replay() after load error = %v", err)
	}

	// A never-saved book loads empty and uninitialized.
	fresh, err := LoadBook(dir, "Equity Momentum", Rupees(20000), Rupees(20))
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if fresh.Initialized() || fresh.Ledger().Len() != 0 {
		t.Error("unknown book did not load empty")
	}
	if !fresh.Cash().Equal(Rupees(20000)) {
		t.Errorf("fresh cash = %s, want the allocation", fresh.Cash())
	}
}

// TestSaveLoadBookEmptySeeding checks that the one-time seeding flag survives
// persistence even when the seed list opened no positions, so the book cannot
// be re-seeded after a reload.
func TestSaveLoadBookEmptySeeding(t *testing.T) {
	dir := t.TempDir()
	b := NewBook("Cash Park", Rupees(50000), Rupees(20))
	if err := b.InitializePositions(tradeTime, nil); err != nil {
		t.Fatal(err)
	}
	if err := SaveBook(dir, b); err != nil {
		t.Fatalf("SaveBook() error = %v", err)
	}

	got, err := LoadBook(dir, "Cash Park", Rupees(50000), Rupees(20))
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if !got.Initialized() {
		t.Error("empty-seeded book lost its initialization across a save/load")
	}
	if err := got.InitializePositions(tradeTime, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("re-seeding error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestHistoryAppendLoad(t *testing.T) {
	dir := t.TempDir()

	// No history yet: empty, not an error.
	if got, err := LoadHistory(dir); err != nil || len(got) != 0 {
		t.Fatalf("LoadHistory() = %d snapshots, %v; want 0, nil", len(got), err)
	}

	a := NewAccountant(DefaultConfig())
	demo := NewSimpleDemo(Rupees(100000), Rupees(20))
	if err := a.Register(demo); err != nil {
		t.Fatal(err)
	}
	if _, err := demo.Book().ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenLong, Instrument: Equity("INFY", "INFY-EQ"), Quantity: Q(50), SuggestedPrice: Rupees(1500),
	}); err != nil {
		t.Fatal(err)
	}

	for _, day := range []string{"2026-02-25", "2026-02-26"} {
		snap := a.Revalue(snapshotAt(day, map[string]Quote{
			"INFY-EQ": {LastPrice: Rupees(1520)},
		}))
		if err := AppendHistory(dir, snap); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}

	got, err := LoadHistory(dir)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d snapshots, want 2", len(got))
	}
	if !got[0].At.Before(got[1].At) {
		t.Error("history is not oldest first")
	}
	if !got[1].UnrealizedPnL.Equal(Rupees(1000)) { // (1520-1500)*50
		t.Errorf("loaded unrealized = %s, want 1000", got[1].UnrealizedPnL)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadConfig() on a missing folder did not fail")
	}
}
