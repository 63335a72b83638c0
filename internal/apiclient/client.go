// Package apiclient es la capa tipada de acceso a la API REST de la plataforma.
// Todas las llamadas de red pasan por request, que centraliza headers,
// identidad y traducción de errores.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hackhub-web/internal/env"
)

const (
	// IdentityHeader transporta el id del usuario que ejecuta la acción.
	IdentityHeader = "X-User-Id"

	unknownErrorMessage = "Unknown error"
)

// APIError es una respuesta no-2xx de la API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf devuelve el status HTTP de un *APIError, o 0 si err no lo es.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound indica si err es un 404 de la API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IdentitySource provee el usuario actual para llamadas que requieren autoría.
type IdentitySource interface {
	CurrentUserID() (int64, bool)
}

// Client implementa el acceso a la API sobre HTTP.
type Client struct {
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
	identity IdentitySource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIdentity hace que las llamadas mutantes sin actor explícito usen el
// usuario de la fuente dada.
func WithIdentity(src IdentitySource) Option {
	return func(c *Client) {
		c.identity = src
	}
}

// New construye un cliente apuntando a cfg.APIURL. La URL base se fija aquí y
// no se vuelve a resolver.
func New(cfg env.EnvConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL devuelve la URL base resuelta.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	headers    http.Header
	actorID    int64
	noIdentity bool
}

// RequestOption ajusta una llamada individual.
type RequestOption func(*requestOptions)

// WithHeader agrega un header; los headers del llamador pisan los por defecto.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

// AsUser adjunta el header de identidad con el id dado.
func AsUser(userID int64) RequestOption {
	return func(o *requestOptions) {
		o.actorID = userID
	}
}

// withoutIdentity marca llamadas que no deben llevar identidad (registro).
func withoutIdentity() RequestOption {
	return func(o *requestOptions) {
		o.noIdentity = true
	}
}

// request ejecuta una llamada y decodifica la respuesta en T. Un 204 devuelve
// el valor cero de T sin leer el body.
func request[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var zero T

	ro := requestOptions{headers: http.Header{}}
	for _, opt := range opts {
		opt(&ro)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range ro.headers {
		req.Header[key] = values
	}
	c.applyIdentity(req, method, ro)

	resp, err := c.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.logger.Warn("api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Message),
		)
		return zero, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return zero, nil
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, nil
		}
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) applyIdentity(req *http.Request, method string, ro requestOptions) {
	if ro.noIdentity {
		req.Header.Del(IdentityHeader)
		return
	}
	if ro.actorID > 0 {
		req.Header.Set(IdentityHeader, strconv.FormatInt(ro.actorID, 10))
		return
	}
	if req.Header.Get(IdentityHeader) != "" || c.identity == nil || method == http.MethodGet {
		return
	}
	if id, ok := c.identity.CurrentUserID(); ok {
		req.Header.Set(IdentityHeader, strconv.FormatInt(id, 10))
	}
}

// errorMessage extrae "detail" del body; cualquier otra cosa es "Unknown error".
func errorMessage(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return unknownErrorMessage
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		if detail == "" {
			return unknownErrorMessage
		}
		return detail
	}

	// Errores de validación: [{"msg": "..."}, ...]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return unknownErrorMessage
}

func get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return request[T](ctx, c, http.MethodGet, path, nil, opts...)
}

func post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return request[T](ctx, c, http.MethodPost, path, body, opts...)
}

func patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return request[T](ctx, c, http.MethodPatch, path, body, opts...)
}

func del(ctx context.Context, c *Client, path string, opts ...RequestOption) error {
	_, err := request[json.RawMessage](ctx, c, http.MethodDelete, path, nil, opts...)
	return err
}

func idPath(prefix string, id int64, rest ...string) string {
	p := prefix + "/" + strconv.FormatInt(id, 10)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
