package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/beatfx/internal/app"
)

func TestParse(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("VERSION", "")

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      string
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "all flags",
			args: []string{
				"-job", "/jobs/a.hcl",
				"--backend-url=http://backend:9000",
				"--api-addr=:8080",
				"--list-effects",
				"--log-level=debug",
				"--log-format=text",
				"--workers=8",
				"/jobs/more",
			},
			expectedConfig: &app.Config{
				JobPaths:    []string{"/jobs/a.hcl", "/jobs/more"},
				BackendURL:  "http://backend:9000",
				APIAddr:     ":8080",
				ListEffects: true,
				LogLevel:    "debug",
				LogFormat:   "text",
				WorkerCount: 8,
			},
		},
		{
			name: "shorthand flag and defaults",
			args: []string{"-j", "/short"},
			expectedConfig: &app.Config{
				JobPaths:    []string{"/short"},
				BackendURL:  app.DefaultBackendURL,
				LogLevel:    "info",
				LogFormat:   "json",
				WorkerCount: 4,
			},
		},
		{
			name:       "no arguments prints usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
			},
		},
		{
			name:       "help flag",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "JOB_PATH")
			},
		},
		{
			name:       "version flag",
			args:       []string{"--version"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Equal(t, "beatfx dev\n", output)
			},
		},
		{
			name:      "invalid log format",
			args:      []string{"--log-format=xml", "a.hcl"},
			expectErr: "invalid log-format",
		},
		{
			name:      "invalid log level",
			args:      []string{"--log-level=loud", "a.hcl"},
			expectErr: "invalid log-level",
		},
		{
			name:      "zero workers",
			args:      []string{"--workers=0", "a.hcl"},
			expectErr: "worker count must be at least 1",
		},
		{
			name:      "relative backend url",
			args:      []string{"--backend-url=backend", "a.hcl"},
			expectErr: "backend url must be an absolute",
		},
		{
			name:      "non-http backend url",
			args:      []string{"--backend-url=ftp://beats.example.com", "a.hcl"},
			expectErr: "backend url must be an absolute http(s) url",
		},
		{
			name:      "unknown flag",
			args:      []string{"--tempo=120"},
			expectErr: "flag provided but not defined",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)

			if tc.expectErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, 2, exitErr.Code)
				require.Contains(t, exitErr.Message, tc.expectErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_BackendFromEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "http://from-env:8000")

	cfg, _, err := Parse([]string{"a.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "http://from-env:8000", cfg.BackendURL)
}
