package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SearchURL = "/v1/gifs/search"

	// FallbackURL is returned whenever a search cannot produce an image
	FallbackURL = "https://media4.popsugar-assets.com/files/2013/11/07/832/n/1922398/eb7a69a76543358d_28.gif"
)

type image struct {
	URL string `json:"url"`
}

type gif struct {
	Images struct {
		DownsizedMedium *image `json:"downsized_medium"`
	} `json:"images"`
}

type searchResponse struct {
	Data []gif `json:"data"`
}

type Client struct {
	BaseURL string
	APIKey  string

	client *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns the url of the first gif matching keyword, or FallbackURL on any failure
func (c *Client) Search(ctx context.Context, keyword string) string {
	u, err := c.search(ctx, keyword)
	if err != nil {
		log.Default().Println("[giphy] ", err)
		return FallbackURL
	}

	return u
}

func (c *Client) search(ctx context.Context, keyword string) (string, error) {
	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("q", strings.Join(strings.Fields(keyword), ""))
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s?%s", c.BaseURL, SearchURL, q.Encode()), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", err
	}

	if len(sr.Data) == 0 || sr.Data[0].Images.DownsizedMedium == nil || sr.Data[0].Images.DownsizedMedium.URL == "" {
		return "", fmt.Errorf("no gif found for %q", keyword)
	}

	return sr.Data[0].Images.DownsizedMedium.URL, nil
}
