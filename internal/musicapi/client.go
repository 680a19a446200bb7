// Package musicapi holds the outbound clients for the third-party
// music-metadata APIs. Each client maps its upstream's response shape
// into the normalized models.Track record.
package musicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arjunvn/melodia-backend/internal/apperr"
)

const (
	requestTimeout = 8 * time.Second
	maxResults     = 10
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// doJSON performs the request, retrying once on transport errors only
// (never on HTTP error statuses), and decodes the body into out. All
// failures come back as upstream_failure with the raw cause kept for
// server-side logs.
func doJSON(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		// One bounded retry for transient network failures.
		resp, err = client.Do(req.WithContext(ctx))
	}
	if err != nil {
		return apperr.Upstream("Music service is unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the upstream body is
		// never relayed to the caller.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return apperr.Upstream("Music service returned an error",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream("Music service returned an invalid response", err)
	}

	return nil
}
