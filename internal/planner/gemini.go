package planner

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Config holds Gemini client settings
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	Temperature       float64
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerSecond float64
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = 500 * time.Millisecond
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = 5 * time.Second
	}
}

// Gemini plans actions with the Gemini generateContent REST API
type Gemini struct {
	cfg     Config
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewGemini creates a planner. Metrics may be nil.
func NewGemini(cfg Config, logger *logging.Logger, metrics *monitoring.Metrics) *Gemini {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("planner")

	// retryablehttp owns retries; resty's own retry loop stays off
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = retryLogger{logger.Sugar()}

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "fsagent-planner/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	breaker := resilience.New("gemini", resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Gemini{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
		metrics: metrics,
	}
}

// Configured reports whether an API key is present
func (g *Gemini) Configured() bool {
	return g.cfg.APIKey != ""
}

// Plan asks the model for one action and parses its reply
func (g *Gemini) Plan(ctx context.Context, prompt string, tools []types.Tool) (types.ActionDescriptor, error) {
	text, err := g.Generate(ctx, BuildSystemPrompt(tools), prompt)
	if err != nil {
		return types.ActionDescriptor{}, err
	}
	desc, err := ParseDescriptor(text)
	if err != nil {
		g.logger.Info("unparsable model output", zap.Int("length", len(text)))
		return types.ActionDescriptor{}, err
	}
	g.logger.Debug("planned action",
		zap.String("action", desc.Name),
		zap.String("explanation", desc.Explanation))
	return desc, nil
}

// Generate sends one system instruction plus user turn and returns the reply text
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	text, err := resilience.Do(ctx, g.breaker, func(ctx context.Context) (string, error) {
		return g.generate(ctx, system, prompt)
	})

	status := "success"
	if err != nil {
		status = "error"
		g.logger.Warn("model call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
	}
	if g.metrics != nil {
		g.metrics.RecordPlannerCall(status, time.Since(start))
	}
	return text, err
}

func (g *Gemini) generate(ctx context.Context, system, prompt string) (string, error) {
	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{Temperature: g.cfg.Temperature},
	}

	var (
		out    generateResponse
		apiErr errorResponse
	)
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.cfg.APIKey).
		SetPathParam("model", g.cfg.Model).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini %d %s: %s", resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini %d: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}

	text := out.text()
	if text == "" {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, out.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}
	return text, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// retryLogger adapts zap to retryablehttp.LeveledLogger
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
