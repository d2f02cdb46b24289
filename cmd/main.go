package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/api"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/chains"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/checker"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/config"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/fraud"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/market"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/metrics"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

type BasicTokenInfo struct {
	Address string `json:"contract_address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

func main() {
	tokensFile := flag.String("tokens", "", "screen the tokens in this JSON file instead of serving HTTP")
	chainID := flag.String("chain", "bsc", "chain for -tokens")
	delay := flag.Duration("delay", 2*time.Second, "pause between tokens for -tokens")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	registry, err := chains.Default()
	if err != nil {
		logger.Error("failed to load chain table", "error", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	service := checker.NewService(checker.Config{
		Security:  fraud.NewGoPlusClient(cfg.GoPlusBaseURL, cfg.UpstreamTimeout),
		Liquidity: market.NewDexScreenerClient(cfg.DexScreenerBaseURL, cfg.UpstreamTimeout),
		Metrics:   metrics.New(promRegistry),
		Logger:    logger,
	})

	if *tokensFile != "" {
		if err := screen(ctx, service, registry, *tokensFile, *chainID, *delay); err != nil {
			logger.Error("screening failed", "error", err)
			os.Exit(1)
		}
		return
	}

	serve(ctx, cfg, logger, api.NewHandler(registry, service, promRegistry, logger))
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, handler *api.Handler) {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	var h http.Handler = mux
	h = api.LoggingMiddleware(logger)(h)
	h = api.RequestIDMiddleware(h)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting token check service", "port", cfg.HTTPPort)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("token check service stopped")
}

// screen checks every token in fileName on one chain and prints a report.
func screen(ctx context.Context, service *checker.Service, registry *chains.Registry, fileName, chainID string, delay time.Duration) error {
	chain, ok := registry.Lookup(chainID)
	if !ok {
		return fmt.Errorf("unknown chain %q, supported: %s", chainID, strings.Join(registry.IDs(), ", "))
	}

	tokenInfos, err := readTokens(fileName)
	if err != nil {
		return err
	}

	fmt.Printf("Token Safety Screening (%s)\n", chain.Name)
	fmt.Printf("Total: %d tokens\n\n", len(tokenInfos))

	tally := make(map[models.Recommendation]int)

	for i, tokenInfo := range tokenInfos {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("[%d/%d] %s (%s)\n", i+1, len(tokenInfos), tokenInfo.Symbol, tokenInfo.Address)

		if !chain.ValidAddress(tokenInfo.Address) {
			fmt.Printf("  SKIPPED: invalid address for %s\n\n", chain.ID)
			continue
		}

		result := service.Check(ctx, chain, tokenInfo.Address)
		tally[result.Safety.Recommendation]++

		fmt.Printf("  Liq: $%.0f (%d pairs) | Holders: %d | Top10: %.1f%% | Tax: %.1f%%/%.1f%%\n",
			result.Liquidity.USD,
			result.Liquidity.PairsCount,
			result.Holders.Count,
			result.Holders.Top10Percent,
			result.Honeypot.BuyTax,
			result.Honeypot.SellTax,
		)
		fmt.Printf("  Score: %d (%s) | %s\n", result.Safety.Score, result.Safety.Grade, result.Safety.Recommendation)
		fmt.Printf("  Explorer: %s\n", chain.TokenURL(tokenInfo.Address))
		if result.Flags.Len() > 0 {
			fmt.Printf("  Flags: %v\n", result.Flags.Flags())
		}
		fmt.Println()

		if i < len(tokenInfos)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	fmt.Printf("Summary: SAFE %d | CAUTION %d | RISKY %d | AVOID %d\n",
		tally[models.RecommendSafe],
		tally[models.RecommendCaution],
		tally[models.RecommendRisky],
		tally[models.RecommendAvoid],
	)
	return nil
}

func readTokens(fileName string) ([]BasicTokenInfo, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("read token list: %w", err)
	}

	var tokens []BasicTokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}
	return tokens, nil
}
