// Package provider wraps the OpenAI Responses API for the intelligence
// components. Components depend on the Completer interface so tests can
// substitute canned output.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// Request describes one completion call. When Schema is set the model is
// forced into strict JSON-schema output mode and the returned string is the
// JSON document; otherwise plain text comes back.
type Request struct {
	Model           string
	Instructions    string
	Input           string
	Temperature     float64
	MaxOutputTokens int64
	SchemaName      string
	Schema          map[string]interface{}
}

// Completer is the narrow surface the intelligence components call.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client is a Completer backed by the OpenAI Responses API. Every call gets
// a bounded timeout and a short retry ladder for rate-limit and server
// errors; the upstream system made single attempts with no timeout, which
// could hang a chat request indefinitely.
type Client struct {
	api         *openai.Client
	timeout     time.Duration
	maxAttempts int
}

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 2
)

// NewClient builds a Client from an API key. A zero timeout or attempt
// count falls back to the defaults.
func NewClient(apiKey string, timeout time.Duration, maxAttempts int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	api := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{api: &api, timeout: timeout, maxAttempts: maxAttempts}
}

var retryWait = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}

func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.api == nil {
		return "", errors.New("provider: client is nil")
	}
	if req.Model == "" {
		return "", errors.New("provider: model is empty")
	}

	params := responses.ResponseNewParams{
		Model: req.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(req.MaxOutputTokens)
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.Responses.New(callCtx, params)
		cancel()
		if err == nil {
			return resp.OutputText(), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) || attempt == c.maxAttempts-1 {
			break
		}
		wait := retryWait[min(attempt, len(retryWait)-1)]
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "internal server error") ||
		strings.Contains(s, "server_error")
}

// GenerateSchema reflects T into a JSON schema acceptable to OpenAI strict
// structured-output mode.
func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureStrictCompliance(m)
	return m
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureStrictCompliance rewrites a reflected schema in place so it passes
// OpenAI strict-mode validation: objects forbid additional properties and
// every declared property is required.
func ensureStrictCompliance(schema map[string]interface{}) {
	if t, ok := schema[typeKey].(string); ok && t == "object" {
		schema[additionalPropertiesKey] = false
		if props, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var required []string
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema[requiredKey] = required
			}
		}
	}
	if props, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]interface{}); ok {
				ensureStrictCompliance(pm)
			}
		}
	}
	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureStrictCompliance(items)
	}
	if ap, ok := schema[additionalPropertiesKey].(map[string]interface{}); ok {
		ensureStrictCompliance(ap)
	}
}
