package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "audio-scribe/internal/app/errors"
)

func newMediaServer(t *testing.T, audioBody []byte) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/episode.mp3":
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write(audioBody)
		case "/episode":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><head>
<meta property="og:title" content="Episode 42: Roads" />
<meta property="og:audio" content="%s/episode.mp3" />
</head><body></body></html>`, server.URL)
		case "/relative":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><audio src="/episode.mp3"></audio></body></html>`)
		case "/empty-page":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head><title>nothing here</title></head></html>`)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server
}

func TestFetchDirectURL(t *testing.T) {
	audioBody := []byte("ID3fake-mp3-bytes")
	server := newMediaServer(t, audioBody)
	defer server.Close()

	f := New(10*time.Second, 0)
	got, err := f.Fetch(context.Background(), server.URL+"/episode.mp3")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !bytes.Equal(got.Data, audioBody) {
		t.Errorf("Data = %q, want %q", got.Data, audioBody)
	}
	if got.Filename != "episode" {
		t.Errorf("Filename = %q, want %q", got.Filename, "episode")
	}
	if got.SourceURL != server.URL+"/episode.mp3" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestFetchResolvesPage(t *testing.T) {
	audioBody := []byte("ID3fake-mp3-bytes")
	server := newMediaServer(t, audioBody)
	defer server.Close()

	f := New(10*time.Second, 0)
	got, err := f.Fetch(context.Background(), server.URL+"/episode")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !bytes.Equal(got.Data, audioBody) {
		t.Errorf("Data = %q, want %q", got.Data, audioBody)
	}
	if got.Filename != "Episode 42- Roads" {
		t.Errorf("Filename = %q, want sanitized page title", got.Filename)
	}
	if got.SourceURL != server.URL+"/episode.mp3" {
		t.Errorf("SourceURL = %q, want resolved media url", got.SourceURL)
	}
}

func TestFetchResolvesRelativeAudioSrc(t *testing.T) {
	audioBody := []byte("ID3fake-mp3-bytes")
	server := newMediaServer(t, audioBody)
	defer server.Close()

	f := New(10*time.Second, 0)
	got, err := f.Fetch(context.Background(), server.URL+"/relative")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(got.Data, audioBody) {
		t.Errorf("Data = %q, want %q", got.Data, audioBody)
	}
}

func TestFetchErrors(t *testing.T) {
	server := newMediaServer(t, []byte("ID3x"))
	defer server.Close()

	f := New(10*time.Second, 0)

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{
			name:    "bad scheme",
			url:     "ftp://example.com/a.mp3",
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "not found",
			url:     server.URL + "/missing",
			wantErr: apperrors.ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("page without audio reference", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), server.URL+"/empty-page")
		if err == nil {
			t.Fatal("Expected error but got none")
		}
	})
}

func TestFetchSizeCap(t *testing.T) {
	big := bytes.Repeat([]byte("a"), 64)
	server := newMediaServer(t, big)
	defer server.Close()

	f := New(10*time.Second, 32)
	_, err := f.Fetch(context.Background(), server.URL+"/episode.mp3")
	if err == nil {
		t.Fatal("Expected error but got none")
	}
	if !errors.Is(err, apperrors.ErrPayloadTooLarge) {
		t.Errorf("error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://cdn.example.com/shows/ep-1.mp3", "ep-1"},
		{"http://cdn.example.com/shows/ep-1.mp3?token=abc", "ep-1"},
		{"http://cdn.example.com/", "audio"},
		{"http://cdn.example.com", "audio"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := filenameFromURL(tt.url); got != tt.want {
				t.Errorf("filenameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
