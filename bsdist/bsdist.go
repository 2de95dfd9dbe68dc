// Package bsdist downloads Bikram Sambat calendar data files.
//
// Calendar data is maintained outside this module and updated as new years
// are announced. Clients are advised to store the [ETags] returned in this
// package and pass them to subsequent calls to avoid downloading the same
// data multiple times.
//
// [ETags]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/ETag
package bsdist

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ngrash/go-nepcal/bstable"
)

// ErrNoURL is returned when no URL is given.
var ErrNoURL = errors.New("bsdist: no url")

// DefaultClient is the default client to download calendar data.
// It is ready to use and is used by the top-level functions [Fetch] and [Download]
// in this package.
var DefaultClient = &Client{}

// Client is a client to download calendar data.
// The zero value is ready to use.
type Client struct {
	// HTTPClient is the http.Client used to download calendar data.
	// If HTTPClient is nil, http.DefaultClient is used.
	//
	// This variable is useful to prevent network calls during tests by using a
	// http.Client with a fake http.RoundTripper that returns canned responses.
	HTTPClient *http.Client

	// Logger receives debug messages about downloads.
	// If Logger is nil, nothing is logged.
	Logger *zap.Logger
}

// httpClient returns the http.Client used by the client.
// If HTTPClient is nil, http.DefaultClient is returned.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

const (
	// gzipSuffix marks URLs of gzip-compressed data files.
	gzipSuffix = ".gz"
	// emptyEtag is the empty etag value.
	emptyEtag = ""
)

// Fetch downloads, parses and validates the calendar data file at url.
//
// If the server responds with a 304 Not Modified status code, the returned
// ETag is the same as the input and the returned Table and error are
// both nil.
//
// If an error is returned, the returned ETag is empty and the returned
// Table is nil.
//
// Fetch is a wrapper around DefaultClient.Fetch.
func Fetch(ctx context.Context, url, etag string) (*bstable.Table, string, error) {
	return DefaultClient.Fetch(ctx, url, etag)
}

// Fetch downloads, parses and validates the calendar data file at url.
// URLs ending in .gz are decompressed.
//
// If the server responds with a 304 Not Modified status code, the returned
// ETag is the same as the input and the returned Table and error are
// both nil.
//
// If an error is returned, the returned ETag is empty and the returned
// Table is nil.
func (c *Client) Fetch(ctx context.Context, url, etag string) (*bstable.Table, string, error) {
	r, newEtag, err := c.Download(ctx, url, etag)
	if err != nil {
		return nil, emptyEtag, err
	}
	if r == nil {
		return nil, etag, nil // Not modified.
	}
	defer func() {
		// Drain and close the response body to ensure the
		// connection can be reused.
		_, _ = io.ReadAll(r)
		_ = r.Close()
	}()

	var body io.Reader = r
	if strings.HasSuffix(url, gzipSuffix) {
		gunzip, err := gzip.NewReader(r)
		if err != nil {
			return nil, emptyEtag, fmt.Errorf("read gzip: %w", err)
		}
		defer gunzip.Close()
		body = gunzip
	}

	table, err := bstable.Load(body)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("load calendar data from %q: %w", url, err)
	}
	c.logger().Debug("loaded calendar data",
		zap.String("url", url),
		zap.Int("start_year", table.StartYear()),
		zap.Int("end_year", table.EndYear()),
	)
	return table, newEtag, nil
}

// Download downloads the resource at the given URL.
//
// The returned ETag is the ETag of the downloaded resource. If the server
// responds with a 304 Not Modified status code, the returned ETag is the same
// as the input and the returned io.ReadCloser and error are both nil.
//
// If no error is returned, the returned io.ReadCloser is a [http.Response.Body]
// and needs to be read fully and closed by the caller to prevent resource leaks.
//
// An error is returned for HTTP status codes other than 200 OK and 304 Not Modified.
//
// Download is a wrapper around DefaultClient.Download.
func Download(ctx context.Context, url, etag string) (io.ReadCloser, string, error) {
	return DefaultClient.Download(ctx, url, etag)
}

// Download downloads the resource at the given URL.
//
// The returned ETag is the ETag of the downloaded resource. If the server
// responds with a 304 Not Modified status code, the returned ETag is the same
// as the input and the returned io.ReadCloser and error are both nil.
//
// If no error is returned, the returned io.ReadCloser is a [http.Response.Body]
// and needs to be read fully and closed by the caller to prevent resource leaks.
//
// An error is returned for HTTP status codes other than 200 OK and 304 Not Modified.
//
// The given context.Context is passed to the http.Request and can be used to
// control cancellation and timeouts.
func (c *Client) Download(ctx context.Context, url, etag string) (io.ReadCloser, string, error) {
	if url == "" {
		return nil, emptyEtag, ErrNoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("create request for %q: %w", url, err)
	}

	if etag != emptyEtag {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("GET %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Drain and close the response body to reuse the connection.
		_, _ = io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		// Not modified response means the resource has not changed
		// based on the ETag we sent. This is fine.
		if resp.StatusCode == http.StatusNotModified {
			c.logger().Debug("calendar data not modified", zap.String("url", url), zap.String("etag", etag))
			return nil, etag, nil
		}

		return nil, emptyEtag, fmt.Errorf("response for %q: unexpected status: %s", url, resp.Status)
	}

	newEtag := resp.Header.Get("etag")
	c.logger().Debug("downloading calendar data", zap.String("url", url), zap.String("etag", newEtag))
	// Caller must take care of closing the response body.
	return resp.Body, newEtag, nil
}
