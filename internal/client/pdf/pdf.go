// Package pdf downloads the sample document shown by the PDF viewer.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookexpert/internal/filex"
)

// DefaultURL is the document fetched when none is configured.
const DefaultURL = "https://www.africau.edu/images/default/sample.pdf"

const maxPDFBytes = 50 << 20

var (
	ErrNotPDF   = errors.New("response is not a PDF document")
	ErrTooLarge = errors.New("document exceeds size limit")
)

// Fetcher retrieves a PDF over HTTP.
type Fetcher struct {
	url  string
	http *http.Client
}

func NewFetcher(url string, c *http.Client) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if c == nil {
		c = http.DefaultClient
	}
	return &Fetcher{url: url, http: c}
}

// Fetch returns the document bytes after checking the %PDF- header.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", f.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxPDFBytes {
		return nil, ErrTooLarge
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	return data, nil
}

// Save fetches the document and writes it atomically to path.
func (f *Fetcher) Save(ctx context.Context, path string) (int, error) {
	data, err := f.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := filex.WriteFileAtomic(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(data), nil
}
