package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "audio-scribe/internal/app/errors"
)

// DefaultMaxBytes caps fetched audio at 200MB.
const DefaultMaxBytes = 200 * 1024 * 1024

// Audio is remote audio pulled down for transcription.
type Audio struct {
	Data []byte

	// Filename is a safe name derived from the URL path or the page title,
	// without extension.
	Filename string

	// SourceURL is the URL the bytes actually came from. For page URLs this
	// is the resolved media URL, not the page.
	SourceURL string
}

// Fetcher downloads audio referenced by URL. Plain media URLs download
// directly; HTML pages are scraped for their audio reference first
// (og:audio meta tag, then <audio> sources).
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// New creates a Fetcher with the given size cap. Zero means DefaultMaxBytes.
func New(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch retrieves the audio behind rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Audio, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid audio URL %q: %w", rawURL, apperrors.ErrInvalidInput)
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/html") {
		audioURL, pageTitle, err := resolveFromPage(resp.Body, parsed)
		if err != nil {
			return nil, fmt.Errorf("no audio reference found at %s: %w", rawURL, err)
		}
		log.Printf("resolved page %s to media url %s", rawURL, audioURL)

		mediaResp, err := f.get(ctx, audioURL)
		if err != nil {
			return nil, err
		}
		defer mediaResp.Body.Close()

		data, err := f.readCapped(mediaResp.Body)
		if err != nil {
			return nil, err
		}
		name := pageTitle
		if name == "" {
			name = filenameFromURL(audioURL)
		}
		return &Audio{Data: data, Filename: sanitizeFilename(name), SourceURL: audioURL}, nil
	}

	data, err := f.readCapped(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Audio{Data: data, Filename: sanitizeFilename(filenameFromURL(rawURL)), SourceURL: rawURL}, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed for %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed for %s: status %d: %w", rawURL, resp.StatusCode, apperrors.ErrRequestFailed)
	}
	return resp, nil
}

// readCapped reads the body up to the size cap and errors past it.
func (f *Fetcher) readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("audio exceeds %d bytes: %w", f.maxBytes, apperrors.ErrPayloadTooLarge)
	}
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyAudio
	}
	return data, nil
}

// resolveFromPage digs the audio URL out of an HTML document.
func resolveFromPage(body io.Reader, pageURL *url.URL) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse page: %w", err)
	}

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")

	audioURL, _ := doc.Find(`meta[property="og:audio"]`).First().Attr("content")
	if audioURL == "" {
		audioURL, _ = doc.Find("audio source[src]").First().Attr("src")
	}
	if audioURL == "" {
		audioURL, _ = doc.Find("audio[src]").First().Attr("src")
	}
	if audioURL == "" {
		return "", "", fmt.Errorf("page carries no og:audio meta or audio element")
	}

	resolved, err := pageURL.Parse(audioURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid media url %q: %w", audioURL, err)
	}
	return resolved.String(), title, nil
}

func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "audio"
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "audio"
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "audio"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")
	return replacer.Replace(name)
}
