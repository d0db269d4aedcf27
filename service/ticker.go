package service

import "strings"

// isinTickerMap maps well-known ISINs to the ticker symbol the market-data
// providers understand. Unknown ISINs are passed through as-is, which works
// when the user entered a plain ticker.
var isinTickerMap = map[string]string{
	// US stocks
	"US0378331005": "AAPL",
	"US5949181045": "MSFT",
	"US02079K3059": "GOOGL",
	"US0231351067": "AMZN",
	"US88160R1014": "TSLA",
	"US30303M1027": "META",
	"US67066G1040": "NVDA",

	// popular ETFs
	"US78462F1030": "SPY",
	"US4642872349": "IVV",
	"US9229083632": "VOO",
	"IE00B4L5Y983": "IWDA.AS",
	"IE00B3RBWM25": "VWCE.DE",
}

// TickerForISIN resolves an ISIN or ticker string to the symbol used for
// price lookups.
func TickerForISIN(isin string) string {
	clean := strings.ToUpper(strings.TrimSpace(isin))
	if ticker, ok := isinTickerMap[clean]; ok {
		return ticker
	}
	return clean
}
