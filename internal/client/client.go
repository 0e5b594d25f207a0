package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/chatform/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the chatform API
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// New creates a client for cfg.APIURL
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	// one attempt per call; the transport only reports what goes on the wire
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.RequestLogHook = requestLogHook(logger)
	retryClient.ResponseLogHook = responseLogHook(logger)

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(cfg.APIURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "chatform/1.0").
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetError(&errorBody{})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	breaker := resilience.New("chatform-api", resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: func(err error) bool {
			if err == nil {
				return false
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status >= 500
			}
			return !errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}
}

func requestLogHook(logger *zap.Logger) retryablehttp.RequestLogHook {
	return func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		logger.Debug("api request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("query", req.URL.RawQuery),
			zap.Int("attempt", attempt),
			zap.String("trace_id", req.Header.Get(tracing.TraceHeader)))
	}
}

func responseLogHook(logger *zap.Logger) retryablehttp.ResponseLogHook {
	return func(_ retryablehttp.Logger, resp *http.Response) {
		fields := []zap.Field{
			zap.String("method", resp.Request.Method),
			zap.String("path", resp.Request.URL.Path),
			zap.Int("status", resp.StatusCode),
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			logger.Warn("api response", fields...)
			return
		}
		logger.Debug("api response", fields...)
	}
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// ListOptions fetches every option
func (c *Client) ListOptions(ctx context.Context) ([]types.Option, error) {
	var options []types.Option
	err := c.get(ctx, "/options", nil, &options)
	return options, err
}

// ListItems fetches the items matching q
func (c *Client) ListItems(ctx context.Context, q types.Query) ([]types.Item, error) {
	var items []types.Item
	err := c.get(ctx, "/items", queryParams("category", q), &items)
	return items, err
}

// ListLocations fetches the locations matching q
func (c *Client) ListLocations(ctx context.Context, q types.Query) ([]types.Location, error) {
	var locations []types.Location
	err := c.get(ctx, "/locations", queryParams("type", q), &locations)
	return locations, err
}

// ItemFilters fetches the distinct item categories
func (c *Client) ItemFilters(ctx context.Context) ([]string, error) {
	var values []string
	err := c.get(ctx, "/items/filters", nil, &values)
	return values, err
}

// LocationFilters fetches the distinct location types
func (c *Client) LocationFilters(ctx context.Context) ([]string, error) {
	var values []string
	err := c.get(ctx, "/locations/filters", nil, &values)
	return values, err
}

// CreateConversation starts a conversation
func (c *Client) CreateConversation(ctx context.Context, title string) (types.Conversation, error) {
	var conv types.Conversation
	err := c.post(ctx, "/conversations", types.CreateConversationRequest{Title: title}, &conv)
	return conv, err
}

// CreateMessage posts a user message
func (c *Client) CreateMessage(ctx context.Context, conversationID, content string) (types.Message, error) {
	var msg types.Message
	err := c.post(ctx, "/messages", types.CreateMessageRequest{
		Content:        content,
		ConversationID: conversationID,
	}, &msg)
	return msg, err
}

func queryParams(builtinKey string, q types.Query) map[string]string {
	params := make(map[string]string, 2)
	if q.Builtin != "" {
		params[builtinKey] = q.Builtin
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, path, func(r *resty.Request) {
		r.SetQueryParams(params)
	}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, out)
}

func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request), out any) error {
	if err := c.breaker.Allow(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	return c.breaker.Do(func() error {
		req := c.resty.R().SetContext(ctx).SetResult(out)
		tracing.Inject(ctx, func(key, value string) { req.SetHeader(key, value) })
		build(req)

		resp, err := req.Execute(method, path)
		if err != nil {
			c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
			return fmt.Errorf("%s %s: %w", method, path, err)
		}

		if resp.IsError() {
			apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
			if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
				apiErr.Message = body.Error
			}
			return apiErr
		}
		return nil
	})
}
