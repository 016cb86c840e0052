// Package storage uploads product images to the object store and returns the
// stable public URL the product record will carry. Product writes must only
// ever reference URLs returned from here.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// HTTPBucket is a thin client for an object store exposing a PUT-to-upload
// endpoint and a separate public read host.
type HTTPBucket struct {
	uploadURL string
	publicURL string
	client    *http.Client
}

func NewHTTPBucket(uploadURL, publicURL string) *HTTPBucket {
	return &HTTPBucket{
		uploadURL: strings.TrimRight(uploadURL, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    http.DefaultClient,
	}
}

func (b *HTTPBucket) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	escaped := url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.uploadURL+"/"+escaped, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload object: store returned %d", resp.StatusCode)
	}
	return b.publicURL + "/" + escaped, nil
}
