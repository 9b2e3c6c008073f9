// Package gist stores JSON documents as files inside GitHub gists.
package gist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/inovacc/gistvault/internal/encoding"
	"github.com/inovacc/gistvault/internal/logging"
)

// Document describes a gist without its file contents.
type Document struct {
	ID          string
	Description string
	HTMLURL     string
	Public      bool
	Files       []string
	UpdatedAt   time.Time
}

// Client reads and writes JSON documents in gists.
type Client struct {
	gh     *github.Client
	raw    *http.Client
	logger *zap.Logger
}

type options struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise "https://host/api/v3/" endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient sets the underlying HTTP client. The bearer token transport
// wraps its Transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewClient creates a gist client. An empty token gives an unauthenticated
// client; the API then answers 401 for anything needing a user.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.httpClient
	if base == nil {
		base = http.DefaultClient
	}

	api := base
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		api = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(api)

	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", o.baseURL, err)
		}

		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}

		gh.BaseURL = u
	}

	logger := logging.OrNop(o.logger)
	logger.Debug("gist client ready",
		zap.String("api", gh.BaseURL.String()),
		zap.Bool("authenticated", token != ""),
	)

	return &Client{gh: gh, raw: base, logger: logger}, nil
}

// Fetch returns the JSON content of fileName in gist id.
func (c *Client) Fetch(ctx context.Context, id, fileName string) (json.RawMessage, error) {
	g, _, err := c.gh.Gists.Get(ctx, id)
	if err != nil {
		return nil, wrapError("fetch gist", err)
	}

	file, ok := g.Files[github.GistFilename(fileName)]
	if !ok {
		return nil, &NotFoundError{GistID: id, File: fileName}
	}

	var content []byte
	if rawURL := file.GetRawURL(); rawURL != "" {
		if content, err = c.fetchRaw(ctx, rawURL); err != nil {
			return nil, err
		}
	} else {
		content = []byte(file.GetContent())
	}

	var doc json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, &ParseError{GistID: id, File: fileName, Err: err}
	}

	c.logger.Debug("fetched document",
		zap.String("gist", id),
		zap.String("file", fileName),
		zap.Int("bytes", len(content)),
	)

	return doc, nil
}

// FetchInto fetches a document and decodes it into v.
func (c *Client) FetchInto(ctx context.Context, id, fileName string, v any) error {
	raw, err := c.Fetch(ctx, id, fileName)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{GistID: id, File: fileName, Err: err}
	}

	return nil
}

func (c *Client) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build content request: %w", err)
	}

	resp, err := c.raw.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Op: "fetch gist content", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gist content: %w", err)
	}

	return body, nil
}

// Update replaces fileName in gist id with value rendered as two-space
// indented JSON. Other files in the gist are left alone.
func (c *Client) Update(ctx context.Context, id, fileName string, value any) (*Document, error) {
	content, err := encoding.ToJSONIndent(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	g, _, err := c.gh.Gists.Edit(ctx, id, &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(fileName): {Content: github.Ptr(string(content))},
		},
	})
	if err != nil {
		return nil, wrapError("update gist", err)
	}

	c.logger.Debug("updated document", zap.String("gist", id), zap.String("file", fileName))

	return toDocument(g), nil
}

// Create makes a new gist holding one file with value as its content.
func (c *Client) Create(ctx context.Context, description, fileName string, value any, public bool) (*Document, error) {
	content, err := encoding.ToJSONIndent(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	g, _, err := c.gh.Gists.Create(ctx, &github.Gist{
		Description: github.Ptr(description),
		Public:      github.Ptr(public),
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(fileName): {Content: github.Ptr(string(content))},
		},
	})
	if err != nil {
		return nil, wrapError("create gist", err)
	}

	doc := toDocument(g)
	c.logger.Info("created gist", zap.String("gist", doc.ID), zap.String("file", fileName))

	return doc, nil
}

// List returns every gist of the authenticated user.
func (c *Client) List(ctx context.Context) ([]*Document, error) {
	opts := &github.GistListOptions{ListOptions: github.ListOptions{PerPage: 100}}

	var docs []*Document

	for {
		gists, resp, err := c.gh.Gists.List(ctx, "", opts)
		if err != nil {
			return nil, wrapError("list gists", err)
		}

		for _, g := range gists {
			docs = append(docs, toDocument(g))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return docs, nil
}

// Exists reports whether gist id can be read.
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	_, _, err := c.gh.Gists.Get(ctx, id)
	if err == nil {
		return true, nil
	}

	err = wrapError("fetch gist", err)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return false, err
}

func toDocument(g *github.Gist) *Document {
	doc := &Document{
		ID:          g.GetID(),
		Description: g.GetDescription(),
		HTMLURL:     g.GetHTMLURL(),
		Public:      g.GetPublic(),
		UpdatedAt:   g.GetUpdatedAt().Time,
	}

	for name := range g.Files {
		doc.Files = append(doc.Files, string(name))
	}

	sort.Strings(doc.Files)

	return doc
}

func wrapError(op string, err error) error {
	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		resp     *http.Response
		message  string
	)

	switch {
	case errors.As(err, &errResp):
		resp, message = errResp.Response, errResp.Message
	case errors.As(err, &rateErr):
		resp, message = rateErr.Response, rateErr.Message
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	}

	if resp == nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	return &HTTPError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
		Err:        err,
	}
}
