// Package query orchestrates a single user query: token resolution, the
// parallel news/price fan-out, the price fallback, and prompt generation.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/killrtmrn242/AI-Assistant/internal/providers"
	"github.com/killrtmrn242/AI-Assistant/internal/telemetry"
	"github.com/killrtmrn242/AI-Assistant/internal/token"
)

const (
	emptyQueryAnswer = "Please enter a query."
	unresolvedAnswer = "Could not identify cryptocurrency in your query. Please specify a valid cryptocurrency name or symbol."

	instructionSuffix = "Please provide a helpful response to the user's question:"
)

// Generator produces a completion for a composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackPriceProvider is a price provider that may be unavailable when its
// credential is not configured.
type FallbackPriceProvider interface {
	providers.PriceProvider
	Available() bool
}

// Data is the raw market payload returned alongside the generated answer.
type Data struct {
	Price     float64              `json:"price"`
	MarketCap float64              `json:"market_cap"`
	Rank      int                  `json:"rank"`
	News      []providers.NewsItem `json:"news"`
}

// Result is a terminal outcome for one query. Data is nil for every outcome
// except success.
type Result struct {
	Answer string
	Data   *Data
}

type Service struct {
	resolver  *token.Resolver
	primary   providers.PriceProvider
	fallback  FallbackPriceProvider
	news      providers.NewsProvider
	generator Generator
}

func NewService(resolver *token.Resolver, primary providers.PriceProvider, fallback FallbackPriceProvider, news providers.NewsProvider, generator Generator) *Service {
	return &Service{
		resolver:  resolver,
		primary:   primary,
		fallback:  fallback,
		news:      news,
		generator: generator,
	}
}

// Handle runs the full query pipeline. A non-nil error means an unexpected
// internal failure; every provider-level failure is degraded to an
// absent/empty result before it reaches a terminal outcome.
func (s *Service) Handle(ctx context.Context, query string) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query pipeline panic: %v", r)
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Answer: emptyQueryAnswer}, nil
	}

	fields := strings.Fields(query)
	lastWord := fields[len(fields)-1]
	resolved := s.resolver.Resolve(lastWord)
	if resolved == "" {
		return Result{Answer: unresolvedAnswer}, nil
	}

	var (
		news     []providers.NewsItem
		snapshot *providers.PriceSnapshot
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, err := s.news.FetchNews(ctx, resolved)
		if err != nil {
			telemetry.NewsFailure()
			slog.Warn("news fetch failed", "token", resolved, "error", err)
			return
		}
		news = items
	}()
	go func() {
		defer wg.Done()
		snap, err := s.primary.FetchSnapshot(ctx, resolved)
		if err != nil {
			telemetry.PriceFailure(s.primary.Name())
			slog.Warn("price fetch failed", "provider", s.primary.Name(), "token", resolved, "error", err)
			return
		}
		snapshot = snap
	}()
	wg.Wait()

	if snapshot == nil && s.fallback != nil && s.fallback.Available() {
		telemetry.FallbackInvoked()
		snap, err := s.fallback.FetchSnapshot(ctx, resolved)
		if err != nil {
			telemetry.PriceFailure(s.fallback.Name())
			slog.Warn("price fetch failed", "provider", s.fallback.Name(), "token", resolved, "error", err)
		} else {
			snapshot = snap
		}
	}

	if snapshot == nil {
		answer := fmt.Sprintf("Could not find data for %s. Please check the cryptocurrency name and try again.", strings.ToUpper(resolved))
		return Result{Answer: answer}, nil
	}

	if news == nil {
		news = []providers.NewsItem{}
	}

	prompt := buildContext(query, resolved, snapshot, news) + "\n\n" + instructionSuffix
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		telemetry.GenerationFailure()
		slog.Error("generation failed", "error", err)
		answer = fmt.Sprintf("Error querying Ollama: %v", err)
	}

	return Result{
		Answer: answer,
		Data: &Data{
			Price:     snapshot.Price,
			MarketCap: snapshot.MarketCap,
			Rank:      snapshot.Rank,
			News:      news,
		},
	}, nil
}

func buildContext(query, resolved string, snapshot *providers.PriceSnapshot, news []providers.NewsItem) string {
	newsBlock := "No recent news found"
	if len(news) > 0 {
		lines := make([]string, 0, len(news))
		for _, item := range news {
			lines = append(lines, fmt.Sprintf("%s (Source: %s, %s)", item.Title, item.Source, item.URL))
		}
		newsBlock = strings.Join(lines, "\n")
	}

	symbol := strings.ToUpper(resolved)
	var b strings.Builder
	fmt.Fprintf(&b, "User asked: %q\n\n", query)
	fmt.Fprintf(&b, "Information about %s:\n\n", symbol)
	fmt.Fprintf(&b, "Current Price: $%s\n", formatAmount(snapshot.Price))
	fmt.Fprintf(&b, "Market Cap: $%s\n", formatAmount(snapshot.MarketCap))
	fmt.Fprintf(&b, "Market Rank: #%d\n\n", snapshot.Rank)
	fmt.Fprintf(&b, "Recent News:\n%s", newsBlock)
	return b.String()
}

// formatAmount renders a USD amount with comma thousands separators and two
// decimal places.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + "." + fracPart
}
