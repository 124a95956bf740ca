package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const timedTextBase = "https://video.google.com/timedtext"

// YouTubeClient lists and fetches caption tracks through the public
// timedtext endpoint. It satisfies both TrackLister and TrackFetcher.
type YouTubeClient struct {
	http *http.Client
	base string
}

func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{
		http: &http.Client{Timeout: 15 * time.Second},
		base: timedTextBase,
	}
}

type trackListXML struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
		Kind     string `xml:"kind,attr"`
	} `xml:"track"`
}

type transcriptXML struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

func (c *YouTubeClient) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	body, err := c.get(ctx, url.Values{"type": {"list"}, "v": {videoID}})
	if err != nil {
		return nil, err
	}
	var list trackListXML
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	out := make([]Track, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		out = append(out, Track{Language: t.LangCode, Generated: t.Kind == "asr"})
	}
	if len(out) == 0 {
		return nil, ErrDisabled
	}
	return out, nil
}

func (c *YouTubeClient) FetchTrack(ctx context.Context, videoID, language string) ([]string, error) {
	body, err := c.get(ctx, url.Values{"lang": {language}, "v": {videoID}})
	if err != nil {
		return nil, err
	}
	var tr transcriptXML
	if err := xml.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	if len(tr.Texts) == 0 {
		return nil, ErrNoTrack
	}
	out := make([]string, 0, len(tr.Texts))
	for _, t := range tr.Texts {
		out = append(out, t.Body)
	}
	return out, nil
}

func (c *YouTubeClient) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUnavailable
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrListFailed, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	return body, nil
}
