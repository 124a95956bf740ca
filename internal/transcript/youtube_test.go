package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*YouTubeClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewYouTubeClient()
	c.base = srv.URL
	return c, srv
}

func TestListTracksParsesXML(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "list", r.URL.Query().Get("type"))
		assert.Equal(t, "vid", r.URL.Query().Get("v"))
		w.Write([]byte(`<transcript_list>
			<track lang_code="en" kind=""/>
			<track lang_code="sw" kind="asr"/>
		</transcript_list>`))
	})
	defer srv.Close()

	tracks, err := c.ListTracks(context.Background(), "vid")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, Track{Language: "en"}, tracks[0])
	assert.Equal(t, Track{Language: "sw", Generated: true}, tracks[1])
}

func TestListTracksEmptyMeansDisabled(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript_list></transcript_list>`))
	})
	defer srv.Close()

	_, err := c.ListTracks(context.Background(), "vid")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFetchTrackSegments(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Write([]byte(`<transcript>
			<text start="0" dur="2">hello</text>
			<text start="2" dur="2">world</text>
		</transcript>`))
	})
	defer srv.Close()

	segs, err := c.FetchTrack(context.Background(), "vid", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, segs)
}

func TestFetchTrackEmptyBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript></transcript>`))
	})
	defer srv.Close()

	_, err := c.FetchTrack(context.Background(), "vid", "en")
	assert.ErrorIs(t, err, ErrNoTrack)
}

func TestStatusMapping(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()
	_, err := c.ListTracks(context.Background(), "vid")
	assert.ErrorIs(t, err, ErrUnavailable)

	c2, srv2 := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	defer srv2.Close()
	_, err = c2.ListTracks(context.Background(), "vid")
	assert.ErrorIs(t, err, ErrListFailed)
}
