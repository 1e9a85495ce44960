package looper

import (
	"regexp"
	"strings"
)

var videoIDRegexp = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)

// ExtractVideoID finds the video id in watch, short-link and embed URLs.
func ExtractVideoID(url string) (string, bool) {
	match := videoIDRegexp.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}

	return match[1], true
}

func (c *Controller) LoadVideo(rawURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	url := strings.TrimSpace(rawURL)
	if url == "" {
		return c.fail(ErrEmptyURL)
	}

	videoID, ok := ExtractVideoID(url)
	if !ok {
		return c.fail(ErrInvalidURL)
	}

	if !c.session.IsReady || c.player == nil {
		return c.fail(ErrPlayerNotReady)
	}

	c.session.VideoID = &videoID
	c.player.LoadVideoByID(videoID)
	c.state.RepetitionCount = 0
	c.logger.Info("video loaded", "video_id", videoID)

	c.succeed("Video loaded successfully!")
	return nil
}
