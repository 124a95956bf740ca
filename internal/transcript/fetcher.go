package transcript

import (
	"context"
	"log"
	"strings"
	"time"
)

const defaultMaxAttempts = 3

type Fetcher struct {
	lister    TrackLister
	fetcher   TrackFetcher
	preferred []string // most-preferred first

	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

type Option func(*Fetcher)

func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) { f.maxAttempts = n }
}

func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.baseDelay = d }
}

// WithSleep replaces the inter-attempt sleep, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(f *Fetcher) { f.sleep = fn }
}

func NewFetcher(lister TrackLister, fetcher TrackFetcher, preferred []string, opts ...Option) *Fetcher {
	f := &Fetcher{
		lister:      lister,
		fetcher:     fetcher,
		preferred:   preferred,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   time.Second,
		sleep:       time.Sleep,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch retrieves a transcript for videoID. An empty id short-circuits
// to Unavailable with no network calls. Transient failures retry with
// exponential backoff (base delay doubling per attempt, sleeping only
// between attempts); an unclassified error aborts immediately so bugs
// are not retried as if they were hiccups.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) Result {
	if strings.TrimSpace(videoID) == "" {
		return Unavailable()
	}

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		res, err := f.tryOnce(ctx, videoID)
		if err == nil {
			return res
		}
		if !transient(err) {
			log.Printf("transcript fetch aborted video=%s: %v", videoID, err)
			return Unavailable()
		}
		if attempt < f.maxAttempts-1 {
			f.sleep(f.baseDelay << attempt)
		}
	}
	return Unavailable()
}

func (f *Fetcher) tryOnce(ctx context.Context, videoID string) (Result, error) {
	tracks, err := f.lister.ListTracks(ctx, videoID)
	if err != nil {
		return Result{}, err
	}

	track, ok := f.pickPreferred(tracks)
	matched := ok
	if !ok {
		// No preferred-language track: fall back to anything available.
		if len(tracks) == 0 {
			return Result{}, ErrNoTrack
		}
		track = tracks[0]
	}

	segments, err := f.fetcher.FetchTrack(ctx, videoID, track.Language)
	if err != nil {
		return Result{}, err
	}
	text := strings.Join(segments, " ")
	if matched {
		return Found(text), nil
	}
	return FoundOtherLanguage(track.Language, text), nil
}

func (f *Fetcher) pickPreferred(tracks []Track) (Track, bool) {
	for _, lang := range f.preferred {
		for _, t := range tracks {
			if strings.EqualFold(t.Language, lang) {
				return t, true
			}
		}
	}
	return Track{}, false
}
