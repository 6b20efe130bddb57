package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate moq -rm -out ../../test/transport_mock.go . Transport

// Transport performs the requests issued by models. Bodies are plain attribute
// mappings; encoding them on the wire is entirely up to the implementation.
type Transport interface {
	Get(ctx context.Context, endpoint string, parameters ...RequestDecoratorFunc) (any, error)
	Post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)
	Put(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)
	Patch(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context, endpoint string) error
}

type RequestDecoratorFunc func([]string) []string

func Debug(enabled string) func(*httpTransport) {
	return func(t *httpTransport) {
		t.debug = (enabled == "true")
	}
}

func Headers(headers map[string][]string) func(*httpTransport) {
	return func(t *httpTransport) {
		for header, values := range headers {
			t.headers[header] = append(t.headers[header], values...)
		}
	}
}

func Timeout(timeout time.Duration) func(*httpTransport) {
	return func(t *httpTransport) {
		t.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) func(*httpTransport) {
	return func(t *httpTransport) {
		t.httpClient = httpClient
	}
}

// WithConfig applies a loaded configuration to the transport
func WithConfig(cfg *Config) func(*httpTransport) {
	return func(t *httpTransport) {
		if cfg == nil {
			return
		}

		t.debug = t.debug || cfg.Debug

		for header, value := range cfg.Headers {
			t.headers[header] = append(t.headers[header], value)
		}

		if cfg.Timeout > 0 {
			t.httpClient.Timeout = cfg.Timeout
		}
	}
}

func NewHTTPTransport(options ...func(*httpTransport)) Transport {
	t := &httpTransport{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		headers: map[string][]string{},
		debug:   false,
	}

	for _, option := range options {
		option(t)
	}

	return t
}

const (
	TraceAttributeEndpoint string = "endpoint"
)

var tracer = otel.Tracer("oresm-client")

type httpTransport struct {
	httpClient *http.Client
	headers    map[string][]string
	debug      bool
}

func (t httpTransport) Get(ctx context.Context, endpoint string, parameters ...RequestDecoratorFunc) (any, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-resource",
		trace.WithAttributes(attribute.String(TraceAttributeEndpoint, endpoint)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := make([]string, 0, 5)
	for _, rdf := range parameters {
		params = rdf(params)
	}

	if len(params) > 0 {
		separator := "?"
		if strings.Contains(endpoint, "?") {
			separator = "&"
		}
		endpoint = endpoint + separator + strings.Join(params, "&")
	}

	response, responseBody, err := t.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if err = t.checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(responseBody)) == 0 {
		return nil, nil
	}

	var result any
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		err = t.decodeError(responseBody, err)
		return nil, err
	}

	return result, nil
}

func (t httpTransport) Post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	return t.send(ctx, "post-resource", http.MethodPost, endpoint, body)
}

func (t httpTransport) Put(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	return t.send(ctx, "put-resource", http.MethodPut, endpoint, body)
}

func (t httpTransport) Patch(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	return t.send(ctx, "patch-resource", http.MethodPatch, endpoint, body)
}

func (t httpTransport) Delete(ctx context.Context, endpoint string) error {
	var err error

	ctx, span := tracer.Start(ctx, "delete-resource",
		trace.WithAttributes(attribute.String(TraceAttributeEndpoint, endpoint)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := t.call(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	err = t.checkResponse(response, responseBody)
	return err
}

func (t httpTransport) send(ctx context.Context, spanName, method, endpoint string, body map[string]any) (map[string]any, error) {
	var err error

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String(TraceAttributeEndpoint, endpoint)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if body == nil {
		body = map[string]any{}
	}

	b, err := json.Marshal(body)
	if err != nil {
		err = fmt.Errorf("failed to marshal request body: %s (%w)", err.Error(), errors.ErrInternal)
		return nil, err
	}

	response, responseBody, err := t.call(ctx, method, endpoint, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}

	if err = t.checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(responseBody)) == 0 {
		return nil, nil
	}

	var result map[string]any
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		err = t.decodeError(responseBody, err)
		return nil, err
	}

	return result, nil
}

func (t httpTransport) checkResponse(response *http.Response, responseBody []byte) error {
	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	contentType := response.Header.Get("Content-Type")
	if response.StatusCode >= http.StatusBadRequest {
		return errors.NewErrorFromResponse(response.StatusCode, contentType, responseBody)
	}

	return fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, errors.ErrInternal)
}

func (t httpTransport) decodeError(responseBody []byte, err error) error {
	if t.debug && len(responseBody) < 1000 {
		return fmt.Errorf("unmarshaling of %s failed with err %s (%w)", string(responseBody), err.Error(), errors.ErrBadResponse)
	}

	return fmt.Errorf("failed to unmarshal response body: %s (%w)", err.Error(), errors.ErrBadResponse)
}

func (t httpTransport) call(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	for header, headerValue := range t.headers {
		for _, val := range headerValue {
			req.Header.Add(header, val)
		}
	}

	log := logging.GetFromContext(ctx)
	log.Debug("calling resource api", "method", method, "endpoint", endpoint)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if t.debug && resp.StatusCode >= http.StatusBadRequest {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
	}

	return resp, respBody, nil
}
