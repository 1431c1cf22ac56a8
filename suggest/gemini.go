package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/quotecard/cache"
	"github.com/ByLCY/quotecard/style"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash"
	DefaultTimeout  = 30 * time.Second
)

// GeminiOptions configures a GeminiClient. Zero values select the defaults.
type GeminiOptions struct {
	APIKey   string
	Endpoint string
	Model    string

	HTTPClient *http.Client
	Cache      cache.Cache
	CacheTTL   time.Duration
	Logger     *log.Logger

	// Attempts and RetryDelay control the backoff on transient failures.
	Attempts   int
	RetryDelay time.Duration
}

// GeminiClient requests suggestions from the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey   string
	endpoint string
	model    string

	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	logger   *log.Logger
	attempts int
	delay    time.Duration
}

var _ Suggester = (*GeminiClient)(nil)

// NewGeminiClient creates a client; an empty API key is rejected up front.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is not set")
	}
	c := &GeminiClient{
		apiKey:   opts.APIKey,
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		model:    opts.Model,
		http:     opts.HTTPClient,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
		logger:   opts.Logger,
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.attempts <= 0 {
		c.attempts = DefaultAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultRetryDelay
	}
	return c, nil
}

// Model returns the model name used in requests.
func (c *GeminiClient) Model() string { return c.model }

// Suggest 先查缓存，未命中时请求模型并缓存结果。
// 任何失败都以 ErrSuggestionFailed 返回。
func (c *GeminiClient) Suggest(ctx context.Context, quote string) (style.Suggestion, error) {
	key := cache.Key("suggest", c.model, quote)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var s style.Suggestion
		if json.Unmarshal(data, &s) == nil {
			c.logger.Debug("suggestion cache hit", "model", c.model)
			return s, nil
		}
	}

	var s style.Suggestion
	attempt := 0
	err := Retry(ctx, c.attempts, c.delay, func() error {
		attempt++
		if attempt > 1 {
			c.logger.Debug("retrying suggestion request", "attempt", attempt)
		}
		var err error
		s, err = c.generate(ctx, quote)
		return err
	})
	if err != nil {
		c.logger.Error("design suggestion failed", "err", err)
		return style.Suggestion{}, failed(err)
	}

	if data, err := json.Marshal(s); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("suggestion cache write failed", "err", err)
		}
	}
	return s, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) generate(ctx context.Context, quote string) (style.Suggestion, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: buildPrompt(quote)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return style.Suggestion{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return style.Suggestion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return style.Suggestion{}, ctx.Err()
		}
		return style.Suggestion{}, &RetryableError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return style.Suggestion{}, err
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return style.Suggestion{}, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return style.Suggestion{}, errors.New("response has no candidates")
	}
	return ParseSuggestion([]byte(out.Candidates[0].Content.Parts[0].Text))
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &RetryableError{Err: err}
	}
	return err
}

// rawSuggestion 使用指针字段以区分缺失与零值。
type rawSuggestion struct {
	FontFamily *string  `json:"fontFamily"`
	FontSize   *float64 `json:"fontSize"`
	Color      *string  `json:"color"`
	Align      *string  `json:"textAlign"`
	Position   *struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	} `json:"position"`
	Shadow *struct {
		Color      *string  `json:"color"`
		OffsetX    *float64 `json:"offsetX"`
		OffsetY    *float64 `json:"offsetY"`
		BlurRadius *float64 `json:"blurRadius"`
	} `json:"textShadow"`
}

// ParseSuggestion decodes a model response body. Every field is required;
// an alignment other than left/center/right becomes center.
func ParseSuggestion(data []byte) (style.Suggestion, error) {
	var raw rawSuggestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return style.Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	switch {
	case raw.FontFamily == nil:
		return style.Suggestion{}, &schemaError{"fontFamily"}
	case raw.FontSize == nil:
		return style.Suggestion{}, &schemaError{"fontSize"}
	case raw.Color == nil:
		return style.Suggestion{}, &schemaError{"color"}
	case raw.Align == nil:
		return style.Suggestion{}, &schemaError{"textAlign"}
	case raw.Position == nil:
		return style.Suggestion{}, &schemaError{"position"}
	case raw.Position.X == nil:
		return style.Suggestion{}, &schemaError{"position.x"}
	case raw.Position.Y == nil:
		return style.Suggestion{}, &schemaError{"position.y"}
	case raw.Shadow == nil:
		return style.Suggestion{}, &schemaError{"textShadow"}
	case raw.Shadow.Color == nil:
		return style.Suggestion{}, &schemaError{"textShadow.color"}
	case raw.Shadow.OffsetX == nil:
		return style.Suggestion{}, &schemaError{"textShadow.offsetX"}
	case raw.Shadow.OffsetY == nil:
		return style.Suggestion{}, &schemaError{"textShadow.offsetY"}
	case raw.Shadow.BlurRadius == nil:
		return style.Suggestion{}, &schemaError{"textShadow.blurRadius"}
	}

	align := style.Align(*raw.Align)
	if !align.Valid() {
		align = style.AlignCenter
	}
	return style.Suggestion{
		FontFamily: *raw.FontFamily,
		FontSize:   *raw.FontSize,
		Color:      *raw.Color,
		Align:      align,
		Position:   style.Position{X: *raw.Position.X, Y: *raw.Position.Y},
		Shadow: style.Shadow{
			Color:      *raw.Shadow.Color,
			OffsetX:    *raw.Shadow.OffsetX,
			OffsetY:    *raw.Shadow.OffsetY,
			BlurRadius: *raw.Shadow.BlurRadius,
		},
	}, nil
}
