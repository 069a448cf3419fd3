// Package render calls the external PDF rendering service. The
// headless-browser rendering itself is out of process; this package
// only ships the book document over and returns the bytes.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storyhatch/internal/entities"
)

// ErrRendererUnavailable is returned when no renderer service is
// configured.
var ErrRendererUnavailable = errors.New("pdf renderer is not configured")

// PDFRenderer renders a completed book into a PDF document.
type PDFRenderer interface {
	RenderBook(ctx context.Context, book *entities.Book) ([]byte, error)
}

// HTTPRenderer posts the book JSON to a rendering service and returns
// the PDF bytes it responds with.
type HTTPRenderer struct {
	serviceURL string
	httpClient *http.Client
}

// NewHTTPRenderer creates a renderer client. An empty serviceURL
// produces a renderer that reports ErrRendererUnavailable.
func NewHTTPRenderer(serviceURL string) *HTTPRenderer {
	return &HTTPRenderer{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (r *HTTPRenderer) RenderBook(ctx context.Context, book *entities.Book) ([]byte, error) {
	if r.serviceURL == "" {
		return nil, ErrRendererUnavailable
	}

	body, err := json.Marshal(book)
	if err != nil {
		return nil, fmt.Errorf("encode book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render request: unexpected status %s", resp.Status)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("render response: %w", err)
	}
	return pdf, nil
}
