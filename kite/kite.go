// Package kite fetches market data from the Zerodha Kite Connect HTTP API
// and turns it into the snapshots and conditions the accounting engine
// consumes.
//
// This is the only place broker conventions live: exchange prefixes
// (NSE:/NFO:), the index keys for NIFTY and India VIX, and the scaling of
// VIX points into a volatility fraction. Everything downstream works on
// instrument keys and fractions.
package kite

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/amey1907/papertrade"
)

const (
	kite_api_key      = "KITE_API_KEY"
	kite_access_token = "KITE_ACCESS_TOKEN"

	// Quote keys for the two indices every strategy watches.
	niftyKey = "NSE:NIFTY 50"
	vixKey   = "NSE:INDIA VIX"
)

var (
	kiteApiFlag = flag.String("kite-api-key", "", "Kite Connect API key.\n If missing it will read the environment variable \""+kite_api_key+"\".")
	kiteTokenFlag = flag.String("kite-access-token", "", "Kite Connect access token for the day.\n If missing it will read the environment variable \""+kite_access_token+"\".")
)

func apiKey() string {
	if *kiteApiFlag == "" {
		*kiteApiFlag = os.Getenv(kite_api_key)
	}
	return *kiteApiFlag
}

func accessToken() string {
	if *kiteTokenFlag == "" {
		*kiteTokenFlag = os.Getenv(kite_access_token)
	}
	return *kiteTokenFlag
}

// Client talks to the Kite Connect API.
//
// Live quotes go through a plain client; the instruments dump goes through
// the daily disk cache, it only changes once a day.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	APIKey      string
	AccessToken string

	live   *http.Client
	cached *http.Client
}

// New returns a client authenticated from the -kite-api-key and
// -kite-access-token flags, falling back to the environment.
func New() *Client {
	return &Client{
		BaseURL:     "https://api.kite.trade",
		APIKey:      apiKey(),
		AccessToken: accessToken(),
		live:        new(http.Client),
		cached:      daily(),
	}
}

// get performs an authenticated GET and unmarshals the JSON response.
func (c *Client) get(client *http.Client, addr string, data any) error {
	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Kite-Version", "3")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "token "+c.APIKey+":"+c.AccessToken)
	}
	return jwget(client, req, data)
}

// exchangeSymbol returns the "EXCHANGE:TRADINGSYMBOL" form Kite quotes
// instruments under. Options trade on NFO, everything else on the NSE cash
// segment, where Kite drops the "-EQ" series suffix.
func exchangeSymbol(ins papertrade.Instrument) string {
	if ins.IsOption() {
		return "NFO:" + ins.Key()
	}
	return "NSE:" + strings.TrimSuffix(ins.Key(), "-EQ")
}

// quote is the slice of a Kite quote payload we read.
type quote struct {
	last      float64
	prevClose float64
}

// quotes fetches the full-quote endpoint for the given exchange symbols.
func (c *Client) quotes(symbols []string) (map[string]quote, error) {
	v := url.Values{}
	for _, s := range symbols {
		v.Add("i", s)
	}
	addr := c.BaseURL + "/quote?" + v.Encode()

	var jobj any
	if err := c.get(c.live, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in quote request: %w", err)
	}

	out := make(map[string]quote, len(symbols))
	for _, s := range symbols {
		last, err := jfloat(jobj, fmt.Sprintf("$[\"data\"][%q][\"last_price\"]", s))
		if err != nil {
			// An unknown symbol is not fatal, the position goes stale.
			continue
		}
		// ohlc.close is yesterday's close, the base for day-change.
		prev, _ := jfloat(jobj, fmt.Sprintf("$[\"data\"][%q][\"ohlc\"][\"close\"]", s))
		out[s] = quote{last: last, prevClose: prev}
	}
	return out, nil
}

// jfloat extracts a float from a decoded JSON document.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: not a float: %v", path, jval)
	}
	return val, nil
}

// Snapshot fetches quotes for the given instruments plus the NIFTY and VIX
// indices, and builds the valuation snapshot stamped at the given instant.
//
// VIX points are divided by 100 here, once; the Quote.Volatility the pricer
// sees is already a fraction. Instruments missing from the response simply
// get no quote.
func (c *Client) Snapshot(at time.Time, instruments []papertrade.Instrument) (*papertrade.MarketSnapshot, error) {
	symbols := []string{niftyKey, vixKey}
	for _, ins := range instruments {
		symbols = append(symbols, exchangeSymbol(ins))
	}
	quotes, err := c.quotes(symbols)
	if err != nil {
		return nil, err
	}

	spot := papertrade.Rupees(quotes[niftyKey].last)
	sigma := quotes[vixKey].last / 100

	snap := papertrade.NewMarketSnapshot(at)
	for _, ins := range instruments {
		q, ok := quotes[exchangeSymbol(ins)]
		if !ok {
			continue
		}
		pq := papertrade.Quote{LastPrice: papertrade.Rupees(q.last)}
		if ins.IsOption() {
			pq.UnderlyingSpot = spot
			pq.Volatility = sigma
		}
		snap.SetQuote(ins.Key(), pq)
	}
	return snap, nil
}

// Conditions fetches the index levels and the per-symbol day changes the
// rebalancing predicates look at.
func (c *Client) Conditions(at time.Time, instruments []papertrade.Instrument) (papertrade.Conditions, error) {
	symbols := []string{niftyKey, vixKey}
	for _, ins := range instruments {
		symbols = append(symbols, exchangeSymbol(ins))
	}
	quotes, err := c.quotes(symbols)
	if err != nil {
		return papertrade.Conditions{}, err
	}

	cond := papertrade.Conditions{
		At:         at,
		Spot:       papertrade.Rupees(quotes[niftyKey].last),
		VIX:        quotes[vixKey].last,
		Volatility: quotes[vixKey].last / 100,
		ChangePct:  make(map[string]float64),
	}
	for _, ins := range instruments {
		q, ok := quotes[exchangeSymbol(ins)]
		if !ok || q.prevClose == 0 {
			continue
		}
		cond.ChangePct[ins.Key()] = (q.last - q.prevClose) / q.prevClose * 100
	}
	// Cross-sectional momentum: the average day change over the tracked
	// names, as a fraction.
	if len(cond.ChangePct) > 0 {
		sum := 0.0
		for _, pct := range cond.ChangePct {
			sum += pct
		}
		cond.Momentum = sum / float64(len(cond.ChangePct)) / 100
	}
	return cond, nil
}
