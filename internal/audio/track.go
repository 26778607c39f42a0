// Package audio turns the backend's base64 response into a playable track
// on disk.
package audio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

// MPEG is the content type the processing backend returns.
const MPEG = "audio/mpeg"

// ErrEmptyTrack is returned when a response decodes to zero bytes.
var ErrEmptyTrack = errors.New("empty audio track")

// Track is a decoded audio file.
type Track struct {
	Data        []byte
	ContentType string
}

// DecodeBase64 reads base64 audio from r. Surrounding whitespace and line
// breaks are ignored. An empty contentType is sniffed from the decoded bytes.
func DecodeBase64(r io.Reader, contentType string) (*Track, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyTrack
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Track{Data: data, ContentType: contentType}, nil
}

// WriteFile atomically replaces path with the track's bytes.
func (t *Track) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".beatfx-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(t.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write track: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write track: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move track into place at %s: %w", path, err)
	}
	return nil
}

// Clear removes a previously written track. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear track %s: %w", path, err)
	}
	return nil
}
