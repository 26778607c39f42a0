package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidJobFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`job "x" {`), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, []string{path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_MissingJobPath(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "typo.hcl")
	err := run(context.Background(), &bytes.Buffer{}, []string{missing})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to find job files")
	require.Contains(t, err.Error(), missing)
}

func TestRun_ProcessesJobEndToEnd(t *testing.T) {
	t.Parallel()

	var gotEffects string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotEffects = r.FormValue("effects")
		f, _, err := r.FormFile("song")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		_, _ = io.WriteString(w, base64.StdEncoding.EncodeToString([]byte(strings.ToUpper(string(data)))))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.mp3"), []byte("beats"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "job.hcl"), []byte(`
		job "loud" {
			song   = "in.mp3"
			output = "out/loud.mp3"
			effect "cut" {
				denominator = 3
				take_index  = 3
			}
		}
	`), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"--log-format=text", "--backend-url=" + srv.URL, dir})
	require.NoError(t, err, out.String())

	got, err := os.ReadFile(filepath.Join(dir, "out", "loud.mp3"))
	require.NoError(t, err)
	require.Equal(t, "BEATS", string(got))
	require.JSONEq(t, `[{"type":"cut","period":2,"denominator":3,"take_index":2}]`, gotEffects)
}
