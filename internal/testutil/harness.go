// Package testutil provides the shared harness for integration-style tests:
// a temp-dir HCL fixture writer plus helpers for building capability sets.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capchain/capchain/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string // plan report written to stdout
	LogOutput string
	Err       error
	App       *app.App
}

// RunPlanTest provides a standardized harness for end-to-end planning tests.
// files maps relative paths (e.g. "stages/convert.hcl", "routes.hcl") to HCL
// content; the harness writes them under a temp root, points the app at
// stages/ and routes.hcl, and runs the full load-index-plan cycle.
func RunPlanTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunPlanTestWithContext(context.Background(), t, files)
}

// RunPlanTestWithContext is RunPlanTest with a caller-supplied context.
func RunPlanTestWithContext(ctx context.Context, t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-plan-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "stages"), 0755))

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig, err := app.NewConfig(app.Config{
		RoutePath:   filepath.Join(tmpDir, "routes.hcl"),
		StagesPath:  filepath.Join(tmpDir, "stages"),
		MaxLength:   4,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 2,
	})
	require.NoError(t, err)

	var outBuffer bytes.Buffer
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(&outBuffer, logBuffer, appConfig)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("CAPCHAIN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output:    outBuffer.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
