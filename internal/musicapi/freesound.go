package musicapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/arjunvn/melodia-backend/internal/models"
)

const defaultFreesoundBaseURL = "https://freesound.org"

// FreesoundClient talks to the Freesound-style audio search API.
type FreesoundClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func NewFreesoundClient(apiKey string) *FreesoundClient {
	return &FreesoundClient{
		http:    newHTTPClient(),
		apiKey:  apiKey,
		baseURL: defaultFreesoundBaseURL,
	}
}

// NewFreesoundClientWithBaseURL is used by tests to point the client at
// a stub server.
func NewFreesoundClientWithBaseURL(apiKey, baseURL string) *FreesoundClient {
	c := NewFreesoundClient(apiKey)
	c.baseURL = baseURL
	return c
}

type freesoundSearchResponse struct {
	Results []struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Created  string `json:"created"`
		Images   struct {
			Waveform string `json:"waveform_m"`
		} `json:"images"`
	} `json:"results"`
}

// Search looks up sounds matching term. The uploader stands in for the
// artist and the upload date for the release date.
func (c *FreesoundClient) Search(ctx context.Context, term string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("%s/apiv2/search/text/?query=%s&fields=name,username,created,images&page_size=%d&token=%s",
		c.baseURL, url.QueryEscape(term), maxResults, url.QueryEscape(c.apiKey))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var decoded freesoundSearchResponse
	if err := doJSON(ctx, c.http, req, &decoded); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		created := result.Created
		if len(created) > 10 {
			created = created[:10]
		}
		tracks = append(tracks, models.Track{
			Title:       result.Name,
			Artist:      result.Username,
			ReleaseDate: created,
			ArtworkURL:  result.Images.Waveform,
		})
	}

	return tracks, nil
}
