// Package market implements a client for fetching liquidity data from DexScreener API.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultDexScreenerBaseURL = "https://api.dexscreener.com/latest/dex"

// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
var ErrUnexpectedStatus = errors.New("dexscreener unexpected http status")

type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
}

// DexScreenerResponse holds the pairs of one token, already filtered to a
// single chain by GetPairs.
type DexScreenerResponse struct {
	Pairs []Pair `json:"pairs"`
}

type Pair struct {
	ChainID   string
	BaseToken BaseToken
	Liquidity *Liquidity // nil when absent or not an object
}

type BaseToken struct {
	Name   looseText `json:"name"`
	Symbol looseText `json:"symbol"`
}

type Liquidity struct {
	USD looseFloat `json:"usd"`
}

type rawResponse struct {
	Pairs []json.RawMessage `json:"pairs"`
}

// rawPair defers every field but chainId so a mistyped field only loses
// its own value.
type rawPair struct {
	ChainID   string          `json:"chainId"`
	BaseToken json.RawMessage `json:"baseToken"`
	Liquidity json.RawMessage `json:"liquidity"`
}

// decodePair reports false only when the pair or its chainId is unreadable.
func decodePair(data []byte) (Pair, bool) {
	var raw rawPair
	if err := json.Unmarshal(data, &raw); err != nil {
		return Pair{}, false
	}

	pair := Pair{ChainID: raw.ChainID}
	if err := json.Unmarshal(raw.BaseToken, &pair.BaseToken); err != nil {
		pair.BaseToken = BaseToken{}
	}
	var liq Liquidity
	if isObject(raw.Liquidity) && json.Unmarshal(raw.Liquidity, &liq) == nil {
		pair.Liquidity = &liq
	}
	return pair, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func NewDexScreenerClient(baseURL string, timeout time.Duration) *DexScreenerClient {
	if baseURL == "" {
		baseURL = DefaultDexScreenerBaseURL
	}
	return &DexScreenerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetPairs fetches every pair of address and keeps only those on chainID.
// Pairs without a readable chainId are skipped.
func (d *DexScreenerClient) GetPairs(ctx context.Context, address, chainID string) (*DexScreenerResponse, error) {
	url := fmt.Sprintf("%s/tokens/%s", d.baseURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dexscreener request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dexscreener pairs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dexscreener response: %w", err)
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode dexscreener response: %w", err)
	}

	result := &DexScreenerResponse{}
	for _, r := range raw.Pairs {
		pair, ok := decodePair(r)
		if !ok || pair.ChainID != chainID {
			continue
		}
		result.Pairs = append(result.Pairs, pair)
	}

	return result, nil
}

// looseText holds a JSON string; any other JSON value is treated as absent.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		str = ""
	}
	*t = looseText(str)
	return nil
}

// looseFloat accepts a JSON number or numeric string; anything else,
// including non-finite values, is 0.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	*f = 0

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		text = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = looseFloat(v)
	return nil
}
