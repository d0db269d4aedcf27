package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Savings-rate reference modes.
const (
	RateModeManual     = "manual"
	RateModeEuribor    = "euribor"
	RateModeECBDeposit = "ecbDeposit"
)

// ecbSeriesKeys maps a benchmark mode to its ECB data-portal series.
var ecbSeriesKeys = map[string]string{
	RateModeEuribor:    "D.U2.EUR.RT.MM.EURIBOR3MD_.HSTA",
	RateModeECBDeposit: "D.U2.EUR.4F.KR.DFR.LEV",
}

// RateResult is the latest observation of a savings-rate benchmark.
type RateResult struct {
	Value  float64 `json:"value"`
	Date   string  `json:"date,omitempty"`
	Source string  `json:"source"`
}

// RateService looks up reference savings rates from the ECB data portal.
// It is a reference lookup only; nothing feeds it into accrual automatically.
type RateService struct {
	client  *http.Client
	baseURL string
}

// NewRateService builds a rate service with the given HTTP timeout.
func NewRateService(timeout time.Duration) *RateService {
	return &RateService{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://sdw-wsrest.ecb.europa.eu/service/data/FM/",
	}
}

// WithBaseURL overrides the ECB endpoint, for tests.
func (s *RateService) WithBaseURL(base string) *RateService {
	s.baseURL = base
	return s
}

// FetchSavingsRate returns the latest benchmark observation for the mode, or
// nil for manual mode, unknown modes, and lookup failures (soft failure).
func (s *RateService) FetchSavingsRate(ctx context.Context, mode string) *RateResult {
	if mode == RateModeManual {
		return nil
	}
	seriesKey, ok := ecbSeriesKeys[mode]
	if !ok {
		return nil
	}

	reqURL := fmt.Sprintf("%s%s?format=jsondata&lastNObservations=1", s.baseURL, url.PathEscape(seriesKey))
	body, err := fetchBody(ctx, s.client, reqURL)
	if err != nil {
		log.Printf("rates: ECB fetch for %s failed: %v", mode, err)
		return nil
	}

	value, date, ok := parseLatestObservation(body)
	if !ok {
		log.Printf("rates: ECB response for %s had no observation", mode)
		return nil
	}
	return &RateResult{Value: value, Date: date, Source: mode}
}

// parseLatestObservation extracts the last observation value and its period
// id from an ECB SDMX-JSON payload.
func parseLatestObservation(body []byte) (float64, string, bool) {
	var parsed struct {
		DataSets []struct {
			Series map[string]struct {
				Observations map[string][]json.Number `json:"observations"`
			} `json:"series"`
		} `json:"dataSets"`
		Structure struct {
			Dimensions struct {
				Observation []struct {
					Values []struct {
						ID string `json:"id"`
					} `json:"values"`
				} `json:"observation"`
			} `json:"dimensions"`
		} `json:"structure"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, "", false
	}
	if len(parsed.DataSets) == 0 {
		return 0, "", false
	}

	for _, series := range parsed.DataSets[0].Series {
		var keys []int
		for k := range series.Observations {
			if n, err := strconv.Atoi(k); err == nil {
				keys = append(keys, n)
			}
		}
		if len(keys) == 0 {
			continue
		}
		sort.Ints(keys)
		last := keys[len(keys)-1]

		obs := series.Observations[strconv.Itoa(last)]
		if len(obs) == 0 {
			continue
		}
		value, err := obs[0].Float64()
		if err != nil {
			continue
		}

		var date string
		obsDims := parsed.Structure.Dimensions.Observation
		if len(obsDims) > 0 && last < len(obsDims[0].Values) {
			date = obsDims[0].Values[last].ID
		}
		return value, date, true
	}
	return 0, "", false
}
