package hcl

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/testutil"
)

func TestLoad_TranslatesJobs(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"jobs/main.hcl": `
			job "half_time" {
				song   = "in.mp3"
				output = "/abs/out.mp3"

				backend {
					url     = env.BASE_URL
					timeout = "30s"
				}

				progress {
					url   = "http://localhost:8000/socket.io/"
					event = "progress"
				}

				effect "cut" {
					denominator = 4
					take_index  = env.PIECE
				}
				effect "randomize" {}
			}
		`,
	})
	file := filepath.Join(dir, "jobs", "main.hcl")

	loader := NewLoaderWithEnv([]string{"BASE_URL=http://backend:8000", "PIECE=2", "BROKEN"})
	model, err := loader.Load(ctx, file)
	require.NoError(t, err)

	want := []*config.Job{{
		Name:   "half_time",
		Source: file,
		Song:   filepath.Join(dir, "jobs", "in.mp3"),
		Output: "/abs/out.mp3",
		Backend: &config.Backend{
			URL:     "http://backend:8000",
			Timeout: 30 * time.Second,
		},
		Progress: &config.Progress{
			URL:   "http://localhost:8000/socket.io/",
			Event: "progress",
		},
		Effects: []*config.EffectStep{
			{Type: "cut", Params: map[string]int{"denominator": 4, "take_index": 2}},
			{Type: "randomize", Params: map[string]int{}},
		},
	}}
	if diff := cmp.Diff(want, model.Jobs); diff != "" {
		t.Errorf("loaded jobs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax error",
			content: `job "a" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute",
			content: `job "a" { tempo = 120 }`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "fractional param",
			content: `job "a" { effect "remove" { period = 2.5 } }`,
			wantErr: "param 'period'",
		},
		{
			name:    "string param",
			content: `job "a" { effect "remove" { period = "often" } }`,
			wantErr: "param 'period'",
		},
		{
			name:    "bad timeout",
			content: `job "a" { backend { timeout = "later" } }`,
			wantErr: "invalid timeout",
		},
		{
			name:    "missing env var",
			content: `job "a" { effect "remove" { period = env.NOPE } }`,
			wantErr: "effect 'remove'",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := testutil.Context(t)
			dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"job.hcl": tc.content})

			_, err := NewLoaderWithEnv(nil).Load(ctx, filepath.Join(dir, "job.hcl"))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_DuplicateJobAcrossFiles(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"a.hcl": `job "same" {}`,
		"b.hcl": `job "same" {}`,
	})

	_, err := NewLoaderWithEnv(nil).Load(ctx, filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "job 'same' declared in both")
}

func TestExtensions(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{".hcl"}, NewLoader().Extensions())
}
