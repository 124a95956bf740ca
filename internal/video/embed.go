package video

import (
	"net/url"
	"strings"
)

// EmbedURL derives the embeddable player URL from a standard YouTube
// watch or short-form URL. Returns "" for anything it cannot parse.
func EmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	var videoID string
	switch u.Hostname() {
	case "youtu.be":
		videoID = strings.TrimPrefix(u.Path, "/")
	case "www.youtube.com", "youtube.com":
		videoID = u.Query().Get("v")
	default:
		return ""
	}
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + videoID
}

// VideoID extracts the opaque video identifier used for transcript
// retrieval; "" when the URL is not a recognized YouTube form.
func VideoID(raw string) string {
	embed := EmbedURL(raw)
	if embed == "" {
		return ""
	}
	return strings.TrimPrefix(embed, "https://www.youtube.com/embed/")
}
