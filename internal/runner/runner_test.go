package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/beatfx/internal/audio"
	"github.com/vk/beatfx/internal/config"
	"github.com/vk/beatfx/internal/effects"
	"github.com/vk/beatfx/internal/progress"
	"github.com/vk/beatfx/internal/testutil"
)

type fakeBackend struct {
	mu       sync.Mutex
	cfg      *config.Backend
	song     string
	payloads []effects.Payload
	err      error
	closed   bool
}

func (f *fakeBackend) Process(_ context.Context, songPath string, payloads []effects.Payload) (*audio.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.song, f.payloads = songPath, payloads
	if f.err != nil {
		return nil, f.err
	}
	return &audio.Track{Data: []byte("processed"), ContentType: audio.MPEG}, nil
}

func (f *fakeBackend) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newJob(dir string, steps ...*config.EffectStep) *config.Job {
	return &config.Job{
		Name:    "job",
		Source:  filepath.Join(dir, "job.hcl"),
		Song:    filepath.Join(dir, "in.mp3"),
		Output:  filepath.Join(dir, "out.mp3"),
		Effects: steps,
	}
}

func newRunner(fb *fakeBackend, listen ProgressFunc) *Runner {
	if listen == nil {
		listen = func(context.Context, *config.Progress, progress.Handler) (func(), error) {
			return func() {}, nil
		}
	}
	return NewWith("http://fallback:8000", func(cfg *config.Backend) (Backend, error) {
		fb.cfg = cfg
		return fb, nil
	}, listen)
}

func TestPlan(t *testing.T) {
	t.Parallel()

	r := newRunner(&fakeBackend{}, nil)
	job := newJob(t.TempDir(),
		&config.EffectStep{Type: "cut", Params: map[string]int{"denominator": 3, "take_index": 3}},
		&config.EffectStep{Type: "randomize", Params: map[string]int{}},
	)

	payloads, err := r.Plan(job)
	require.NoError(t, err)
	require.Equal(t, []effects.Payload{
		{Type: effects.Cut, Params: map[string]int{"period": 2, "denominator": 3, "take_index": 2}},
		{Type: effects.Randomize, Params: map[string]int{}},
	}, payloads)
	require.Equal(t, "http://fallback:8000", job.Backend.URL)
}

func TestPlan_ReportsEveryInvalidEffect(t *testing.T) {
	t.Parallel()

	r := newRunner(&fakeBackend{}, nil)
	job := newJob(t.TempDir(),
		&config.EffectStep{Type: "swap", Params: map[string]int{"x_period": 4}},
		&config.EffectStep{Type: "chorus"},
		&config.EffectStep{Type: "remove", Params: map[string]int{"period": 2}},
		&config.EffectStep{Type: "cut", Params: map[string]int{"take_index": 3}},
	)

	_, err := r.Plan(job)
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "effect #1 (swap): Both beats are the same.")
	require.Contains(t, msg, "effect #2 (chorus): unknown effect")
	require.NotContains(t, msg, "effect #3")
	require.Contains(t, msg, "effect #4 (cut): Can't take piece #3 of a beat that's only being divided into 2 parts.")
}

func TestProcess_WritesOutput(t *testing.T) {
	t.Parallel()

	ctx, logs := testutil.Context(t)
	dir := t.TempDir()
	fb := &fakeBackend{}

	var progressCfg *config.Progress
	stopped := false
	r := newRunner(fb, func(_ context.Context, cfg *config.Progress, handle progress.Handler) (func(), error) {
		progressCfg = cfg
		handle(progress.Event{Name: "progress", Data: 0.5})
		return func() { stopped = true }, nil
	})

	job := newJob(dir, &config.EffectStep{Type: "reverse", Params: map[string]int{"period": 4}})
	job.Progress = &config.Progress{URL: "http://localhost:8000/socket.io/"}

	require.NoError(t, r.Process(ctx, job))

	got, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	require.Equal(t, "processed", string(got))
	require.Equal(t, job.Song, fb.song)
	require.Equal(t, []effects.Payload{{Type: effects.Reverse, Params: map[string]int{"period": 4}}}, fb.payloads)
	require.True(t, fb.closed)
	require.Equal(t, config.DefaultEndpoint, fb.cfg.Endpoint)
	require.Same(t, job.Progress, progressCfg)
	require.True(t, stopped)
	require.Contains(t, logs.String(), "Backend progress")
}

func TestProcess_FailureClearsOutput(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	job := newJob(dir, &config.EffectStep{Type: "remove"})
	require.NoError(t, os.WriteFile(job.Output, []byte("stale"), 0o644))

	boom := errors.New("backend down")
	err := newRunner(&fakeBackend{err: boom}, nil).Process(ctx, job)
	require.ErrorIs(t, err, boom)
	require.NoFileExists(t, job.Output)
}

func TestProcess_ProgressErrorIsNotFatal(t *testing.T) {
	t.Parallel()

	ctx, logs := testutil.Context(t)
	job := newJob(t.TempDir(), &config.EffectStep{Type: "remove"})
	job.Progress = &config.Progress{URL: "bad"}

	r := newRunner(&fakeBackend{}, func(context.Context, *config.Progress, progress.Handler) (func(), error) {
		return nil, errors.New("no feed")
	})
	require.NoError(t, r.Process(ctx, job))
	require.Contains(t, logs.String(), "Progress feed unavailable")
}
