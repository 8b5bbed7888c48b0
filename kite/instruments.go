package kite

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/amey1907/papertrade"
)

// Kite publishes the tradable universe as a CSV dump, refreshed once a day.
// Columns, in order:
//
//	instrument_token,exchange_token,tradingsymbol,name,last_price,expiry,
//	strike,lot_size,instrument_type,segment,exchange
const (
	colTradingsymbol  = 2
	colName           = 3
	colExpiry         = 5
	colStrike         = 6
	colInstrumentType = 8
	instrumentCols    = 11
)

// Instruments fetches the NFO contract dump and returns the option universe
// keyed by tradingsymbol. The dump only changes at listing time, so it goes
// through the daily cache.
func (c *Client) Instruments() (map[string]papertrade.Instrument, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/instruments/NFO", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Kite-Version", "3")

	resp, err := c.cached.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch instruments dump: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot fetch instruments dump: %v", resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = instrumentCols
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse instruments dump: %w", err)
	}

	out := make(map[string]papertrade.Instrument)
	for i, rec := range records {
		if i == 0 && rec[colTradingsymbol] == "tradingsymbol" {
			continue // header row
		}
		kind, err := papertrade.ParseOptionKind(rec[colInstrumentType])
		if err != nil || kind == papertrade.KindEquity {
			continue // futures and anything else we do not price
		}
		strike, err := strconv.ParseFloat(rec[colStrike], 64)
		if err != nil {
			continue
		}
		expiry, err := papertrade.ParseDate(rec[colExpiry])
		if err != nil {
			continue
		}
		sym := rec[colTradingsymbol]
		ins := papertrade.Option(sym, papertrade.Rupees(strike), kind, expiry)
		ins.Tradingsymbol = sym
		if ins.Underlying == "" {
			ins.Underlying = strings.ToUpper(rec[colName])
		}
		out[sym] = ins
	}
	return out, nil
}

// NextMonthlyExpiry returns the earliest expiry strictly after the given
// date among the underlying's listed contracts. Used to pick the contract a
// rolled position lands on.
func NextMonthlyExpiry(universe map[string]papertrade.Instrument, underlying string, after papertrade.Date) (papertrade.Date, bool) {
	var best papertrade.Date
	found := false
	for _, ins := range universe {
		if ins.Underlying != underlying || !after.Before(ins.Expiry) {
			continue
		}
		if !found || ins.Expiry.Before(best) {
			best = ins.Expiry
			found = true
		}
	}
	return best, found
}

// FindOption returns the listed contract matching strike, kind and expiry.
func FindOption(universe map[string]papertrade.Instrument, underlying string, strike papertrade.Money, kind papertrade.OptionKind, expiry papertrade.Date) (papertrade.Instrument, bool) {
	for _, ins := range universe {
		if ins.Underlying == underlying && ins.Kind == kind &&
			ins.Expiry == expiry && ins.Strike.Equal(strike) {
			return ins, true
		}
	}
	return papertrade.Instrument{}, false
}
