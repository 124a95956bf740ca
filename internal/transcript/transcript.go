// Package transcript retrieves video transcripts with language
// preference, bounded retry and exponential backoff. All failure paths
// resolve to one of the three Result variants; the fetcher never
// panics or returns an error past its boundary.
package transcript

import (
	"context"
	"errors"
)

// Transient failure kinds. Anything else aborts the retry loop.
var (
	ErrListFailed  = errors.New("track listing failed")
	ErrDisabled    = errors.New("transcripts disabled")
	ErrNoTrack     = errors.New("no transcript track")
	ErrUnavailable = errors.New("video unavailable")
)

type Status string

const (
	StatusFound         Status = "found"
	StatusOtherLanguage Status = "found_other_language"
	StatusUnavailable   Status = "unavailable"
)

// Result is the outcome of a fetch. Unavailable is the fallback marker:
// retrieval exhausted every retry and language option.
type Result struct {
	Status   Status `json:"status"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text,omitempty"`
}

func Found(text string) Result { return Result{Status: StatusFound, Text: text} }

func FoundOtherLanguage(lang, text string) Result {
	return Result{Status: StatusOtherLanguage, Language: lang, Text: text}
}

func Unavailable() Result { return Result{Status: StatusUnavailable} }

// Track is one transcript track advertised for a video. Generated
// tracks (machine captions) are accepted the same as authored ones.
type Track struct {
	Language  string
	Generated bool
}

type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
}

// TrackFetcher returns the track's text segments in order.
type TrackFetcher interface {
	FetchTrack(ctx context.Context, videoID, language string) ([]string, error)
}

func transient(err error) bool {
	return errors.Is(err, ErrListFailed) ||
		errors.Is(err, ErrDisabled) ||
		errors.Is(err, ErrNoTrack) ||
		errors.Is(err, ErrUnavailable)
}
