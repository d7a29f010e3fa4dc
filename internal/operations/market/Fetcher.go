package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/K1llByte/ben/internal/models"
	"github.com/K1llByte/ben/internal/services/economy"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const quotesPath = "/v2/cryptocurrency/quotes/latest"

// QuoteFetcher resolves coin symbols against the market data API. Every call
// is a fresh round trip; there is no caching, so valuing N holdings costs N
// requests.
type QuoteFetcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	convert string
	log     zerolog.Logger
}

func NewQuoteFetcher(baseURL, apiKey, convert string, timeout time.Duration, log zerolog.Logger) *QuoteFetcher {
	return &QuoteFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		convert: strings.ToUpper(convert),
		log:     log,
	}
}

// Quote fetches the display name and current fiat price for a symbol.
// Returns economy.ErrUnknownSymbol when the API has no such asset and
// economy.ErrUnavailable on any transport or parse failure.
func (f *QuoteFetcher) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	endpoint := fmt.Sprintf("%s%s?symbol=%s&convert=%s",
		f.baseURL, quotesPath, url.QueryEscape(symbol), f.convert)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", economy.ErrUnavailable, err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", economy.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", economy.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("%w: status %d", economy.ErrUnavailable, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return models.Quote{}, fmt.Errorf("%w: malformed response", economy.ErrUnavailable)
	}

	// A non-zero error code alone is not fatal; what matters is whether the
	// symbol entry is present in the payload.
	if code := gjson.GetBytes(body, "status.error_code").Int(); code != 0 {
		f.log.Warn().Int64("error_code", code).Str("symbol", symbol).
			Msg("market API reported an error code")
	}

	entry := gjson.GetBytes(body, "data."+symbol)
	if !entry.Exists() {
		return models.Quote{}, economy.ErrUnknownSymbol
	}
	// An absent or null price field still parses; only a positive number is
	// a usable quote.
	price := entry.Get("quote." + f.convert + ".price")
	if price.Type != gjson.Number || price.Float() <= 0 {
		return models.Quote{}, fmt.Errorf("%w: no usable %s price for %s", economy.ErrUnavailable, f.convert, symbol)
	}

	return models.Quote{
		Symbol: symbol,
		Name:   entry.Get("name").String(),
		Price:  price.Float(),
	}, nil
}

var _ economy.PriceOracle = (*QuoteFetcher)(nil)
