package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/metrics"
)

const (
	provider           = "gemini"
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// Config holds the Gemini settings.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string // empty means the public endpoint
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// Generator produces text with a Gemini model.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGenerator creates a Gemini text generator.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	g := &Generator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}
	if g.model == "" {
		g.model = defaultModel
	}
	if g.temperature <= 0 {
		g.temperature = defaultTemperature
	}
	if g.maxTokens <= 0 {
		g.maxTokens = defaultMaxTokens
	}
	return g, nil
}

// Generate returns the model reply to a single-turn prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		metrics.ObserveProvider(provider, "generate", time.Since(start).Seconds(), err)
		return "", fmt.Errorf("gemini generate: %w: %w", err, domain.ErrAnalystProviderError)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err = fmt.Errorf("empty gemini response: %w", domain.ErrAnalystProviderError)
	}
	metrics.ObserveProvider(provider, "generate", time.Since(start).Seconds(), err)
	return text, err
}

// HealthCheck verifies the configured model is reachable.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", g.model, err)
	}
	return nil
}

// Name returns the provider and model.
func (g *Generator) Name() string {
	return provider + ":" + g.model
}
