package papertrade

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// On-disk layout of a portfolio folder. Everything is JSON or JSONL so the
// whole folder can live in a private git repo and diff cleanly:
//
//	config.json                   portfolio configuration
//	history.jsonl                 one snapshot per revaluation
//	books/<name>/book.json        book state (the one-time seeding flag)
//	books/<name>/ledger.jsonl     one cash movement per line
//	books/<name>/positions.jsonl  one position per line
const (
	configFilename   = "config.json"
	historyFilename  = "history.jsonl"
	booksDirname     = "books"
	bookMetaFilename = "book.json"
	ledgerFilename   = "ledger.jsonl"
	positionFilename = "positions.jsonl"
)

// bookMeta is the book state that lives in neither JSONL stream. The seeding
// flag must survive a save/load round trip even for a book whose seed list
// was empty.
type bookMeta struct {
	Initialized bool `json:"initialized"`
}

// InitStore creates a portfolio folder with its configuration. It refuses to
// overwrite an existing one.
func InitStore(path string, cfg Config) error {
	configFile := filepath.Join(path, configFilename)
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%w: portfolio folder %q", ErrAlreadyInitialized, path)
	}
	if err := os.MkdirAll(filepath.Join(path, booksDirname), 0755); err != nil {
		return fmt.Errorf("could not create portfolio folder %q: %w", path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	if err := os.WriteFile(configFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("could not write %q: %w", configFile, err)
	}
	return nil
}

// LoadConfig reads a portfolio folder's configuration.
func LoadConfig(path string) (Config, error) {
	configFile := filepath.Join(path, configFilename)
	data, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, fmt.Errorf("could not read portfolio config %q: %w", configFile, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse portfolio config %q: %w", configFile, err)
	}
	return cfg, nil
}

// bookDir returns the folder holding one strategy's files.
func bookDir(path, name string) string {
	return filepath.Join(path, booksDirname, name)
}

// SaveBook persists a book's ledger and positions into the portfolio folder.
func SaveBook(path string, b *Book) error {
	dir := bookDir(path, b.Name())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create book folder %q: %w", dir, err)
	}

	ledgerFile := filepath.Join(dir, ledgerFilename)
	f, err := os.Create(ledgerFile)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", ledgerFile, err)
	}
	defer f.Close()
	if err := EncodeLedger(f, b.Ledger()); err != nil {
		return fmt.Errorf("could not persist ledger for %q: %w", b.Name(), err)
	}

	positionFile := filepath.Join(dir, positionFilename)
	g, err := os.Create(positionFile)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", positionFile, err)
	}
	defer g.Close()
	if err := EncodePositions(g, b.Positions()); err != nil {
		return fmt.Errorf("could not persist positions for %q: %w", b.Name(), err)
	}

	metaFile := filepath.Join(dir, bookMetaFilename)
	data, err := json.MarshalIndent(bookMeta{Initialized: b.Initialized()}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal book state for %q: %w", b.Name(), err)
	}
	if err := os.WriteFile(metaFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("could not write %q: %w", metaFile, err)
	}
	return nil
}

// LoadBook rebuilds a named book from the portfolio folder. A book that was
// never saved comes back empty and uninitialized; a saved one has its cash
// replayed from the ledger and audited.
func LoadBook(path, name string, allocation, feePerLot Money) (*Book, error) {
	b := NewBook(name, allocation, feePerLot)
	dir := bookDir(path, name)

	ledgerFile := filepath.Join(dir, ledgerFilename)
	f, err := os.Open(ledgerFile)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", ledgerFile, err)
	}
	defer f.Close()
	ledger, err := DecodeLedger(f, allocation)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger for %q: %w", name, err)
	}
	b.ledger = ledger

	positionFile := filepath.Join(dir, positionFilename)
	g, err := os.Open(positionFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not open %q: %w", positionFile, err)
	}
	if err == nil {
		defer g.Close()
		positions, err := DecodePositions(g)
		if err != nil {
			return nil, fmt.Errorf("could not load positions for %q: %w", name, err)
		}
		b.restorePositions(positions)
	}

	// The metadata, when present, is authoritative over the inference
	// restorePositions makes for folders written before it existed.
	metaFile := filepath.Join(dir, bookMetaFilename)
	data, err := os.ReadFile(metaFile)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", metaFile, err)
	}
	var meta bookMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("could not parse %q: %w", metaFile, err)
	}
	b.initialized = meta.Initialized
	return b, nil
}

// LoadStrategyBook restores a strategy's book in place from the portfolio
// folder.
func LoadStrategyBook(path string, s Strategy) error {
	b, err := LoadBook(path, s.Name(), s.Book().Allocation(), s.Book().feePerLot)
	if err != nil {
		return err
	}
	*s.Book() = *b
	return nil
}

// AppendHistory appends one snapshot to the portfolio's history stream.
func AppendHistory(path string, snap *PortfolioSnapshot) error {
	historyFile := filepath.Join(path, historyFilename)
	f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", historyFile, err)
	}
	defer f.Close()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not append to %q: %w", historyFile, err)
	}
	return nil
}

// LoadHistory reads all persisted snapshots, oldest first. A portfolio with
// no history yet returns an empty slice.
func LoadHistory(path string) ([]*PortfolioSnapshot, error) {
	historyFile := filepath.Join(path, historyFilename)
	f, err := os.Open(historyFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", historyFile, err)
	}
	defer f.Close()

	var out []*PortfolioSnapshot
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap PortfolioSnapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			return nil, fmt.Errorf("format error in %q line %q: %w", historyFile, string(line), err)
		}
		out = append(out, &snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %q: %w", historyFile, err)
	}
	return out, nil
}
