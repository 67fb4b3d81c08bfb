package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/invix-studio/quick-billing/pkg/circuitbreaker"
)

var ErrUploadFailed = errors.New("image upload failed")

// Store uploads product images to an S3-compatible blob store over its
// HTTP API and returns the public URL of the stored object.
type Store struct {
	baseURL string
	bucket  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewStore(baseURL, bucket string) *Store {
	return &Store{
		baseURL: baseURL,
		bucket:  bucket,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New[string]("blob-store"),
	}
}

// Upload streams the image body to the store under a fresh object name
// and returns its public URL. The original filename only contributes
// its extension.
func (s *Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	object := uuid.New().String() + path.Ext(filename)

	url, err := s.breaker.Execute(func() (string, error) {
		return s.put(ctx, object, contentType, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: store unavailable", ErrUploadFailed)
		}
		return "", err
	}
	return url, nil
}

func (s *Store) put(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, object)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: store returned %d", ErrUploadFailed, resp.StatusCode)
	}
	return url, nil
}
