package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSource is a scripted provider for chain tests.
type fakeSource struct {
	name  string
	price float64
	err   error
	calls int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Quote(ctx context.Context, symbol string) (float64, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func TestPriceService_FetchPrice_FirstSourceWins(t *testing.T) {
	first := &fakeSource{name: "first", price: 101.5}
	second := &fakeSource{name: "second", price: 999}
	s := NewPriceServiceWithSources(first, second)

	price, ok := s.FetchPrice(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, 101.5, price)
	assert.Equal(t, int32(0), atomic.LoadInt32(&second.calls))
}

func TestPriceService_FetchPrice_FallsThroughOnError(t *testing.T) {
	first := &fakeSource{name: "first", err: errors.New("timeout")}
	second := &fakeSource{name: "second", price: 0} // zero is not a quote
	third := &fakeSource{name: "third", price: 88.25}
	s := NewPriceServiceWithSources(first, second, third)

	price, ok := s.FetchPrice(context.Background(), "MSFT")
	assert.True(t, ok)
	assert.Equal(t, 88.25, price)
	assert.Equal(t, int32(1), atomic.LoadInt32(&first.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second.calls))
}

func TestPriceService_FetchPrice_AllSourcesFail(t *testing.T) {
	s := NewPriceServiceWithSources(
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", err: errors.New("down")},
	)

	_, ok := s.FetchPrice(context.Background(), "TSLA")
	assert.False(t, ok)
}

func TestPriceService_FetchPrice_ResolvesISIN(t *testing.T) {
	src := &fakeSource{name: "only", price: 42}
	s := NewPriceServiceWithSources(src)

	price, ok := s.FetchPrice(context.Background(), "US0378331005")
	assert.True(t, ok)
	assert.Equal(t, 42.0, price)
}

func TestPriceService_FetchPrices_PartialFailure(t *testing.T) {
	// one source that only knows AAPL
	s := NewPriceServiceWithSources(&symbolSource{prices: map[string]float64{"AAPL": 150}})

	result := s.FetchPrices(context.Background(), []string{"AAPL", "UNKNOWN"})
	assert.NotNil(t, result)
	assert.Equal(t, map[string]float64{"AAPL": 150}, result)
}

func TestPriceService_FetchPrices_NoSourcesMeansTotalFailure(t *testing.T) {
	s := NewPriceServiceWithSources()
	assert.Nil(t, s.FetchPrices(context.Background(), []string{"AAPL"}))
}

func TestPriceService_FetchPrices_CancelledContext(t *testing.T) {
	s := NewPriceServiceWithSources(&fakeSource{name: "a", price: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, s.FetchPrices(ctx, []string{"AAPL"}))
}

// symbolSource prices only the symbols it knows.
type symbolSource struct {
	prices map[string]float64
}

func (s *symbolSource) Name() string { return "symbols" }

func (s *symbolSource) Quote(ctx context.Context, symbol string) (float64, error) {
	if p, ok := s.prices[symbol]; ok {
		return p, nil
	}
	return 0, errors.New("unknown symbol")
}

func TestTickerForISIN(t *testing.T) {
	assert.Equal(t, "AAPL", TickerForISIN("US0378331005"))
	assert.Equal(t, "IWDA.AS", TickerForISIN("IE00B4L5Y983"))
	// plain tickers and unknown identifiers pass through
	assert.Equal(t, "AAPL", TickerForISIN("AAPL"))
	assert.Equal(t, "XX0000000000", TickerForISIN("XX0000000000"))
}
