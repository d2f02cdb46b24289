// Package fraud implements the GoPlus token-security client and normalizes
// its payload into honeypot and holder records.
package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultGoPlusBaseURL = "https://api.gopluslabs.io"

var (
	// ErrAPIStatus is returned when GoPlus answers with a non-success code.
	ErrAPIStatus = errors.New("goplus api error")
	// ErrNoData is returned when the response holds no entry for the token.
	ErrNoData = errors.New("goplus returned no data for token")
	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("goplus unexpected http status")
)

type GoPlusClient struct {
	baseURL    string
	httpClient *http.Client
}

// GoPlusAPIResponse is the token_security envelope. Result is keyed by
// contract address.
type GoPlusAPIResponse struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Result  map[string]json.RawMessage `json:"result"`
}

// TokenSecurity is the subset of a GoPlus entry this service reads. Every
// scalar is string-encoded upstream; looseString also accepts numbers and
// nulls so one odd field never rejects the whole payload.
type TokenSecurity struct {
	IsHoneypot         looseString `json:"is_honeypot"`
	BuyTax             looseString `json:"buy_tax"`
	SellTax            looseString `json:"sell_tax"`
	IsMintable         looseString `json:"is_mintable"`
	OwnerChangeBalance looseString `json:"owner_change_balance"`
	TransferPausable   looseString `json:"transfer_pausable"`
	IsBlacklisted      looseString `json:"is_blacklisted"`
	TokenName          looseString `json:"token_name"`
	TokenSymbol        looseString `json:"token_symbol"`
	HolderCount        looseString `json:"holder_count"`
	CreatorPercent     looseString `json:"creator_percent"`

	// Holders stays raw: upstream sometimes sends null or a non-array here.
	Holders json.RawMessage `json:"holders"`
}

type holderEntry struct {
	Percent looseString `json:"percent"`
}

func NewGoPlusClient(baseURL string, timeout time.Duration) *GoPlusClient {
	if baseURL == "" {
		baseURL = DefaultGoPlusBaseURL
	}
	return &GoPlusClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckToken fetches the security entry of address on the GoPlus chain id.
// EVM addresses are expected lowercased already; Solana addresses are case
// sensitive and are sent as given.
func (g *GoPlusClient) CheckToken(ctx context.Context, chainID, address string) (*TokenSecurity, error) {
	url := fmt.Sprintf("%s/api/v1/token_security/%s?contract_addresses=%s", g.baseURL, chainID, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build goplus request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch goplus data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read goplus response: %w", err)
	}

	var apiResp GoPlusAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode goplus response: %w", err)
	}

	if apiResp.Code != 1 {
		return nil, fmt.Errorf("%w: code %d: %s", ErrAPIStatus, apiResp.Code, apiResp.Message)
	}

	raw, ok := lookupEntry(apiResp.Result, address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoData, address)
	}

	var data TokenSecurity
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoData, address, err)
	}

	return &data, nil
}

// lookupEntry finds the result entry for key, falling back to a
// case-insensitive match.
func lookupEntry(result map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if raw, ok := result[key]; ok && !isJSONNull(raw) {
		return raw, true
	}
	for k, raw := range result {
		if strings.EqualFold(k, key) && !isJSONNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// looseString holds a provider scalar as text. Absent and null decode to
// the empty string; numbers keep their literal text; anything else is
// treated as absent.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}

	*s = ""
	return nil
}
