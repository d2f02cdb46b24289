// Package checker runs a full token check: both provider fetches, field
// normalization, and the scoring engine.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/chains"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/fraud"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/market"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/metrics"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/scoring"
)

const (
	ProviderGoPlus      = "goplus"
	ProviderDexScreener = "dexscreener"

	// checkedAtLayout is RFC 3339 in UTC with millisecond precision.
	checkedAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

// SecuritySource fetches contract-security data. *fraud.GoPlusClient implements it.
type SecuritySource interface {
	CheckToken(ctx context.Context, chainID, address string) (*fraud.TokenSecurity, error)
}

// LiquiditySource fetches trading pairs. *market.DexScreenerClient implements it.
type LiquiditySource interface {
	GetPairs(ctx context.Context, address, chainID string) (*market.DexScreenerResponse, error)
}

type Config struct {
	Security  SecuritySource
	Liquidity LiquiditySource
	Metrics   *metrics.Metrics // optional
	Logger    *slog.Logger     // optional
	Now       func() time.Time // optional, defaults to time.Now
}

type Service struct {
	security  SecuritySource
	liquidity LiquiditySource
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		security:  cfg.Security,
		liquidity: cfg.Liquidity,
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "checker"),
		now:       now,
	}
}

// Check scores token on chain. It always returns a verdict: a provider that
// fails contributes its default records instead of failing the check.
func (s *Service) Check(ctx context.Context, chain chains.Chain, token string) models.CheckResponse {
	address := chain.NormalizeAddress(token)

	var (
		wg       sync.WaitGroup
		security *fraud.TokenSecurity
		pairs    *market.DexScreenerResponse
	)

	// The fetches share no cancel func, so one failing never aborts the other.
	wg.Add(2)
	go func() {
		defer wg.Done()
		security = s.fetchSecurity(ctx, chain, address)
	}()
	go func() {
		defer wg.Done()
		pairs = s.fetchPairs(ctx, chain, address)
	}()
	wg.Wait()

	honeypot := fraud.ParseHoneypot(security)
	liquidity := market.ParseLiquidity(pairs)
	holders := fraud.ParseHolders(security)
	identity := resolveIdentity(fraud.ParseTokenInfo(security), market.ParseTokenInfo(pairs))

	safety, flags := scoring.Evaluate(honeypot, liquidity, holders)
	s.metrics.ObserveVerdict(safety, flags)

	s.logger.Debug("token checked",
		"chain", chain.ID,
		"token", token,
		"score", safety.Score,
		"recommendation", safety.Recommendation,
		"flags", flags.Flags(),
	)

	return models.CheckResponse{
		Token:     token,
		Chain:     chain.ID,
		Name:      identity.Name,
		Symbol:    identity.Symbol,
		Safety:    safety,
		Honeypot:  honeypot,
		Liquidity: liquidity,
		Holders:   holders,
		Flags:     flags,
		CheckedAt: s.now().UTC().Format(checkedAtLayout),
	}
}

func (s *Service) fetchSecurity(ctx context.Context, chain chains.Chain, address string) (data *fraud.TokenSecurity) {
	start := time.Now()
	defer s.recoverFetch(ProviderGoPlus, chain, start, func() { data = nil })

	data, err := s.security.CheckToken(ctx, chain.GoPlusID, address)
	s.metrics.ObserveUpstream(ProviderGoPlus, time.Since(start), err)
	if err != nil {
		s.logger.Warn("upstream fetch failed", "provider", ProviderGoPlus, "chain", chain.ID, "error", err)
		return nil
	}
	return data
}

func (s *Service) fetchPairs(ctx context.Context, chain chains.Chain, address string) (data *market.DexScreenerResponse) {
	start := time.Now()
	defer s.recoverFetch(ProviderDexScreener, chain, start, func() { data = nil })

	data, err := s.liquidity.GetPairs(ctx, address, chain.DexScreenerID)
	s.metrics.ObserveUpstream(ProviderDexScreener, time.Since(start), err)
	if err != nil {
		s.logger.Warn("upstream fetch failed", "provider", ProviderDexScreener, "chain", chain.ID, "error", err)
		return nil
	}
	return data
}

// recoverFetch turns a panicking provider into a failed fetch so the other
// provider and the caller are unaffected. It must be deferred directly.
func (s *Service) recoverFetch(provider string, chain chains.Chain, start time.Time, reset func()) {
	rec := recover()
	if rec == nil {
		return
	}
	reset()
	err := fmt.Errorf("%s fetch panicked: %v", provider, rec)
	s.metrics.ObserveUpstream(provider, time.Since(start), err)
	s.logger.Error("upstream fetch panicked", "provider", provider, "chain", chain.ID, "panic", rec)
}

// resolveIdentity picks each field from primary when present, otherwise
// from fallback. Name and symbol resolve independently.
func resolveIdentity(primary, fallback models.TokenInfo) models.TokenInfo {
	return models.TokenInfo{
		Name:   firstPresent(primary.Name, fallback.Name),
		Symbol: firstPresent(primary.Symbol, fallback.Symbol),
	}
}

func firstPresent(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
