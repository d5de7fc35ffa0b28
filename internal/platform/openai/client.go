package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/pkg/httpx"
	"github.com/yungbote/force-backend/internal/platform/ctxutil"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

var errMissingKey = errors.New("missing OPENAI_API_KEY")

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	RPS         float64
	Burst       int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Request is one chat completion with a system and a user message.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client talks to a chat-completions endpoint. Only rate limiting and 5xx
// answers are retried; credentials and malformed bodies fail immediately.
type Client struct {
	log         *logger.Logger
	metrics     *observability.Metrics
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewClient(cfg Config, log *logger.Logger, metrics *observability.Metrics) *Client {
	clientLog := log.With("client", "OpenAIClient")
	if strings.TrimSpace(cfg.APIKey) == "" {
		clientLog.Warn("OPENAI_API_KEY not set; generation endpoints will fail with upstream_auth")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 10 * time.Second
	}
	return &Client{
		log:         clientLog,
		metrics:     metrics,
		httpClient:  &http.Client{},
		limiter:     rate.NewLimiter(limit, burst),
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		timeout:     timeout,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
	}
}

// DefaultModel is used when a Request leaves Model empty.
func (c *Client) DefaultModel() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete returns the raw text of choices[0].message.content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	start := time.Now()
	if c.apiKey == "" {
		err := &Error{Kind: KindUnauthorized, Err: errMissingKey}
		c.finish(model, err, start, chatResponse{})
		return "", err
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			lastErr = transportError(err)
			break
		}
		parsed, resp, err := c.doOnce(ctx, payload)
		if err == nil {
			c.metrics.ObserveLLMAttempt(model, "ok")
			c.finish(model, nil, start, parsed)
			return *parsed.Choices[0].Message.Content, nil
		}
		lastErr = err
		kind := KindOf(err)
		c.metrics.ObserveLLMAttempt(model, string(kind))
		if !kind.Retryable() || attempt == c.maxRetries {
			break
		}

		sleepFor := httpx.RetryAfterDuration(resp, httpx.Backoff(c.baseBackoff, c.maxBackoff, attempt), c.maxBackoff)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("OpenAI request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"kind", string(kind),
			"sleep", sleepFor.String(),
			"trace_id", traceID(ctx),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			lastErr = transportError(err)
			break
		}
	}
	c.finish(model, lastErr, start, chatResponse{})
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, payload []byte) (chatResponse, *http.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return chatResponse{}, nil, &Error{Kind: KindTransport, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		httpReq.Header.Set("X-Request-Id", td.RequestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return chatResponse{}, nil, transportError(err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return chatResponse{}, resp, transportError(readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return chatResponse{}, resp, &Error{Kind: classifyStatus(resp.StatusCode), StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return chatResponse{}, resp, &Error{Kind: KindMalformed, Body: truncate(string(raw), 500), Err: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil ||
		strings.TrimSpace(*parsed.Choices[0].Message.Content) == "" {
		return chatResponse{}, resp, &Error{Kind: KindMalformed, Body: truncate(string(raw), 500), Err: errors.New("missing choices[0].message.content")}
	}
	return parsed, resp, nil
}

func (c *Client) finish(model string, err error, start time.Time, parsed chatResponse) {
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		c.log.Error("OpenAI request failed", "model", model, "kind", outcome, "error", err.Error())
	}
	c.metrics.ObserveLLMRequest(model, outcome, time.Since(start), parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
}

func traceID(ctx context.Context) string {
	if td := ctxutil.GetTraceData(ctx); td != nil {
		return td.TraceID
	}
	return ""
}
