// Package client is the studio REST API client used by the unit views and the group configuration editor.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
	"github.com/trezcool/studio/core/xblock"
)

const (
	defaultTimeout = 30 * time.Second
	editorHeader   = "X-Studio-User"
)

type (
	Client struct {
		baseURL string
		user    string
		rest    *rest.Client
	}

	Option func(c *Client)

	// APIError is a non-2xx response that is not a validation failure.
	APIError struct {
		StatusCode int
		Message    string
	}

	errorResponse struct {
		Error      string            `json:"error"`
		Message    string            `json:"message"`
		Attributes []core.FieldError `json:"attributes"`
	}
)

func (e *APIError) Error() string {
	return fmt.Sprintf("studio api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.rest = &rest.Client{HTTPClient: hc} }
}

// WithUser sets the studio user performing the requests.
func WithUser(user string) Option {
	return func(c *Client) { c.user = user }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: defaultTimeout}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig returns a Client for conf.Client.
func NewFromConfig(conf *core.Config, opts ...Option) *Client {
	timeout := conf.Client.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts = append([]Option{WithHTTPClient(&http.Client{Timeout: timeout})}, opts...)
	return New(conf.Client.BaseURL, opts...)
}

// XBlocks

func (c *Client) GetXBlock(ctx context.Context, locator string) (xblock.Info, error) {
	var info xblock.Info
	err := c.do(ctx, rest.Get, xblockPath(locator), nil, nil, &info)
	return info, err
}

// UpdateXBlock sends a partial update and returns the block's new state.
func (c *Client) UpdateXBlock(ctx context.Context, locator string, req xblock.UpdateRequest) (xblock.Info, error) {
	var info xblock.Info
	err := c.do(ctx, rest.Patch, xblockPath(locator), nil, req, &info)
	return info, err
}

func (c *Client) CreateXBlock(ctx context.Context, req xblock.CreateRequest) (xblock.Info, error) {
	var info xblock.Info
	err := c.do(ctx, rest.Post, "/v1/xblocks", nil, req, &info)
	return info, err
}

func (c *Client) DeleteXBlock(ctx context.Context, locator string) error {
	return c.do(ctx, rest.Delete, xblockPath(locator), nil, nil, nil)
}

// Group configurations

// ListGroupConfigurations lists the configurations of a course; ordering is a comma separated list of fields, "-" prefixed for descending order.
func (c *Client) ListGroupConfigurations(ctx context.Context, courseKey, ordering string) ([]*groupconfig.Configuration, error) {
	var query map[string]string
	if ordering != "" {
		query = map[string]string{"ordering": ordering}
	}
	var wires []groupconfig.Wire
	if err := c.do(ctx, rest.Get, configurationsPath(courseKey), query, nil, &wires); err != nil {
		return nil, err
	}
	cfgs := make([]*groupconfig.Configuration, 0, len(wires))
	for _, w := range wires {
		cfgs = append(cfgs, groupconfig.FromWire(w))
	}
	return cfgs, nil
}

func (c *Client) GetGroupConfiguration(ctx context.Context, courseKey string, id int) (*groupconfig.Configuration, error) {
	var w groupconfig.Wire
	if err := c.do(ctx, rest.Get, configurationPath(courseKey, id), nil, nil, &w); err != nil {
		return nil, err
	}
	return groupconfig.FromWire(w), nil
}

// SaveGroupConfiguration creates cfg when it has no ID yet, or updates it.
func (c *Client) SaveGroupConfiguration(ctx context.Context, courseKey string, cfg *groupconfig.Configuration) (*groupconfig.Configuration, error) {
	method, path := rest.Post, configurationsPath(courseKey)
	if cfg.ID != nil {
		method, path = rest.Put, configurationPath(courseKey, *cfg.ID)
	}
	var w groupconfig.Wire
	if err := c.do(ctx, method, path, nil, cfg.ToJSON(), &w); err != nil {
		return nil, err
	}
	return groupconfig.FromWire(w), nil
}

func (c *Client) DeleteGroupConfiguration(ctx context.Context, courseKey string, id int) error {
	return c.do(ctx, rest.Delete, configurationPath(courseKey, id), nil, nil, nil)
}

// do sends a JSON request and decodes the response into out (if not nil).
func (c *Client) do(ctx context.Context, method rest.Method, path string, query map[string]string, in, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if c.user != "" {
		req.Headers[editorHeader] = c.user
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.Unmarshal([]byte(resp.Body), out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

// decodeError turns a 400 {message, attributes} response into a *core.ValidationError and anything else into an *APIError.
func decodeError(resp *rest.Response) error {
	var body errorResponse
	_ = json.Unmarshal([]byte(resp.Body), &body)

	if resp.StatusCode == http.StatusBadRequest && body.Message != "" {
		return core.NewValidationError(errors.New(body.Message), body.Attributes...)
	}
	msg := body.Error
	if msg == "" {
		msg = strings.TrimSpace(resp.Body)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func xblockPath(locator string) string {
	return "/v1/xblocks/" + url.PathEscape(locator)
}

func configurationsPath(courseKey string) string {
	return "/v1/courses/" + url.PathEscape(courseKey) + "/group_configurations"
}

func configurationPath(courseKey string, id int) string {
	return configurationsPath(courseKey) + "/" + strconv.Itoa(id)
}
