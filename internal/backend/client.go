// Package backend submits songs and effect payloads to the remote processing
// service and returns the transformed track.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/beatfx/internal/audio"
	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/ctxlog"
	"github.com/vk/beatfx/internal/effects"
)

// Form field names understood by the backend.
const (
	SongField    = "song"
	EffectsField = "effects"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Client talks to one processing backend.
type Client struct {
	http     *http.Client
	endpoint string
}

// New creates a client for the given backend settings.
func New(cfg *config.Backend) (*Client, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url '%s' must use http or https", cfg.URL)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint: strings.TrimRight(base.String(), "/") + "/" + strings.TrimLeft(endpoint, "/"),
	}, nil
}

// Endpoint returns the full url songs are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Process uploads the song with the serialized effects and decodes the
// base64 track the backend answers with.
func (c *Client) Process(ctx context.Context, songPath string, payloads []effects.Payload) (*audio.Track, error) {
	logger := ctxlog.FromContext(ctx)

	effectsJSON, err := json.Marshal(payloads)
	if err != nil {
		return nil, fmt.Errorf("failed to encode effects: %w", err)
	}

	song, err := os.Open(songPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open song '%s': %w", songPath, err)
	}
	defer song.Close()

	body, contentType := multipartBody(song, filepath.Base(songPath), effectsJSON)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Info("Submitting song to backend", "url", c.endpoint, "song", songPath, "effects", string(effectsJSON))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute backend request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("Received backend response", "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}

	track, err := audio.DecodeBase64(resp.Body, responseAudioType(resp.Header.Get("Content-Type")))
	if err != nil {
		return nil, err
	}
	logger.Info("Received processed track", "bytes", len(track.Data), "content_type", track.ContentType)
	return track, nil
}

// multipartBody streams the form through a pipe so the song is never held
// in memory as a whole.
func multipartBody(song io.Reader, filename string, effectsJSON []byte) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, song, filename, effectsJSON)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeForm(mw *multipart.Writer, song io.Reader, filename string, effectsJSON []byte) error {
	if err := mw.WriteField(EffectsField, string(effectsJSON)); err != nil {
		return err
	}
	part, err := mw.CreateFormFile(SongField, filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, song)
	return err
}

// responseAudioType keeps an explicit audio content type and falls back to
// MPEG otherwise, since the body itself is base64 text.
func responseAudioType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err == nil && strings.HasPrefix(mediaType, "audio/") {
		return mediaType
	}
	return audio.MPEG
}
