package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Config struct {
	Timeout time.Duration
	// OEmbedURL and WatchURL default to youtube.com.
	OEmbedURL string
	WatchURL  string
}

type Client struct {
	httpClient *http.Client
	oembedURL  string
	watchURL   string
}

func NewClient(cfg *Config) *Client {
	c := Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		oembedURL:  cfg.OEmbedURL,
		watchURL:   cfg.WatchURL,
	}
	if c.oembedURL == "" {
		c.oembedURL = "https://www.youtube.com/oembed"
	}
	if c.watchURL == "" {
		c.watchURL = "https://www.youtube.com/watch"
	}

	return &c
}

// Get looks the video up through oEmbed and falls back to scraping the watch
// page when the video cannot be embedded.
func (c *Client) Get(ctx context.Context, videoID string) (*VideoData, error) {
	videoData, err := c.getWithEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}
