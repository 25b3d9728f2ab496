package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/lastalibi/internal/errors"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar so the player session
// survives across requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req.WithContext(ctx), nil
}

func (c *Client) extractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form")
	}
	return csrfToken, nil
}

// SubmitForm submits the form at formURLPath with action formActionURLPath,
// merging values into the submission, and returns the response document. The
// CSRF token is lifted from the rendered form. Redirects are followed, so the
// returned document is the page the submission lands on.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, error) {
	var (
		doc *goquery.Document
		err error
	)
	if doc, err = c.GetDoc(ctx, formURLPath); err != nil {
		return nil, errors.Wrap(err, "get document")
	}

	return c.SubmitFormOnDoc(ctx, doc, formActionURLPath, values)
}

// SubmitFormOnDoc is SubmitForm for an already fetched document, which avoids
// re-rendering pages whose forms advance server state on every fetch.
func (c *Client) SubmitFormOnDoc(
	ctx context.Context,
	doc *goquery.Document,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, error) {
	csrfToken, err := c.extractCSRFToken(doc, formActionURLPath)
	if err != nil {
		return nil, errors.Wrap(err, "extract CSRF token")
	}

	formData := neturl.Values{}
	for key, vals := range values {
		formData[key] = vals
	}
	formData.Set("csrf_token", csrfToken)
	data := strings.NewReader(formData.Encode())

	var req *http.Request
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath, data); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}

	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// PostJSON posts a JSON payload to an API endpoint and returns the response.
// The caller owns the response body.
func (c *Client) PostJSON(ctx context.Context, urlPath string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	var req *http.Request
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, urlPath, bytes.NewReader(body)); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}
