package avatar

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"avatard/internal/models"
)

// downloadImage fetches an image URL and returns its bytes and content type.
// The read is capped just above the validator maximum so a misbehaving origin
// cannot balloon memory; the validator rejects the oversized result.
func downloadImage(ctx context.Context, client *http.Client, url string, maxBytes int) (*models.ImagePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFetchFailed, resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}

	return &models.ImagePayload{
		Bytes:       data,
		ContentType: ct,
		OriginURL:   url,
	}, nil
}
