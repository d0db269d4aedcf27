package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"myfinances/config"
)

// PriceLookup resolves current market prices for ticker symbols. Lookups are
// soft-failing: a symbol that cannot be priced is reported as absent, never
// as an error.
type PriceLookup interface {
	// FetchPrice returns the current price for one symbol, or ok=false when
	// no provider could resolve it.
	FetchPrice(ctx context.Context, symbol string) (float64, bool)
	// FetchPrices resolves a batch of symbols in parallel. Symbols that fail
	// are missing from the map. A nil map means the whole batch failed and
	// nothing should be updated.
	FetchPrices(ctx context.Context, symbols []string) map[string]float64
}

// PriceSource is a single market-data provider.
type PriceSource interface {
	Name() string
	Quote(ctx context.Context, symbol string) (float64, error)
}

// PriceService resolves prices through an ordered chain of providers,
// trying each until one returns a positive price.
type PriceService struct {
	sources []PriceSource
}

// NewPriceService builds the default provider chain: Yahoo Finance through
// two CORS proxies, then Finnhub and Twelve Data when API keys are
// configured.
func NewPriceService(cfg *config.PricingConfig) *PriceService {
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	sources := []PriceSource{
		&yahooSource{name: "yahoo-allorigins", proxy: "https://api.allorigins.win/raw?url=", client: client},
		&yahooSource{name: "yahoo-corsproxy", proxy: "https://corsproxy.io/?", client: client},
	}
	if cfg.FinnhubKey != "" {
		sources = append(sources, &finnhubSource{apiKey: cfg.FinnhubKey, client: client})
	}
	if cfg.TwelveDataKey != "" {
		sources = append(sources, &twelveDataSource{apiKey: cfg.TwelveDataKey, client: client})
	}
	return &PriceService{sources: sources}
}

// NewPriceServiceWithSources builds a service over an explicit chain,
// used by tests to inject fakes.
func NewPriceServiceWithSources(sources ...PriceSource) *PriceService {
	return &PriceService{sources: sources}
}

// FetchPrice tries each provider in order until one returns a positive
// price. Provider errors are logged and skipped.
func (s *PriceService) FetchPrice(ctx context.Context, symbol string) (float64, bool) {
	symbol = TickerForISIN(symbol)
	for _, src := range s.sources {
		if ctx.Err() != nil {
			return 0, false
		}
		price, err := src.Quote(ctx, symbol)
		if err != nil {
			log.Printf("price source %s failed for %s: %v", src.Name(), symbol, err)
			continue
		}
		if price > 0 {
			return price, true
		}
	}
	return 0, false
}

// FetchPrices resolves all symbols in parallel. Unresolvable symbols are
// omitted. Returns nil when no provider chain is available or the context
// is already done, so callers can distinguish total failure from a batch of
// individual misses.
func (s *PriceService) FetchPrices(ctx context.Context, symbols []string) map[string]float64 {
	if len(s.sources) == 0 || ctx.Err() != nil {
		return nil
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = make(map[string]float64)
	)
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if price, ok := s.FetchPrice(ctx, symbol); ok {
				mu.Lock()
				result[symbol] = price
				mu.Unlock()
			}
		}(symbol)
	}
	wg.Wait()
	return result
}

// yahooSource fetches the Yahoo Finance v8 chart endpoint through a CORS
// proxy and reads meta.regularMarketPrice.
type yahooSource struct {
	name   string
	proxy  string
	client *http.Client
}

func (y *yahooSource) Name() string { return y.name }

func (y *yahooSource) Quote(ctx context.Context, symbol string) (float64, error) {
	chartURL := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d", url.PathEscape(symbol))
	reqURL := y.proxy + url.QueryEscape(chartURL)

	body, err := fetchBody(ctx, y.client, reqURL)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 || parsed.Chart.Result[0].Meta.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return parsed.Chart.Result[0].Meta.RegularMarketPrice, nil
}

// finnhubSource fetches quotes from finnhub.io (free tier API key).
type finnhubSource struct {
	apiKey string
	client *http.Client
}

func (f *finnhubSource) Name() string { return "finnhub" }

func (f *finnhubSource) Quote(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("https://finnhub.io/api/v1/quote?symbol=%s&token=%s",
		url.QueryEscape(symbol), url.QueryEscape(f.apiKey))

	body, err := fetchBody(ctx, f.client, reqURL)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Current float64 `json:"c"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Current <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return parsed.Current, nil
}

// twelveDataSource fetches quotes from twelvedata.com (free tier API key).
type twelveDataSource struct {
	apiKey string
	client *http.Client
}

func (t *twelveDataSource) Name() string { return "twelvedata" }

func (t *twelveDataSource) Quote(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("https://api.twelvedata.com/price?symbol=%s&apikey=%s",
		url.QueryEscape(symbol), url.QueryEscape(t.apiKey))

	body, err := fetchBody(ctx, t.client, reqURL)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}
	price, err := strconv.ParseFloat(parsed.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return price, nil
}

// fetchBody performs a GET and returns the response body for 2xx statuses.
func fetchBody(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
