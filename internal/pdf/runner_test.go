package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdftools-backend/internal/apperr"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunnerCapturesOutput(t *testing.T) {
	script := writeScript(t, "greeter", `echo hello
echo warn >&2
`)
	runner := NewRunner(10 * time.Second)

	res, err := runner.Run(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(res.Stdout))
	assert.Equal(t, "warn\n", string(res.Stderr))
}

func TestRunnerPassesArguments(t *testing.T) {
	script := writeScript(t, "argdump", `printf '%s\n' "$@"`)
	runner := NewRunner(10 * time.Second)

	res, err := runner.Run(context.Background(), script, "--flag", "value with spaces")
	require.NoError(t, err)
	assert.Equal(t, "--flag\nvalue with spaces\n", string(res.Stdout))
}

func TestRunnerNonZeroExit(t *testing.T) {
	script := writeScript(t, "broken", `echo boom >&2
exit 3
`)
	runner := NewRunner(10 * time.Second)

	_, err := runner.Run(context.Background(), script)
	require.Error(t, err)

	var internal *apperr.Internal
	require.ErrorAs(t, err, &internal)
	assert.Contains(t, err.Error(), "broken failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestRunnerTimeout(t *testing.T) {
	script := writeScript(t, "sleepy", `sleep 30`)
	runner := NewRunner(1 * time.Second)

	start := time.Now()
	_, err := runner.Run(context.Background(), script)
	elapsed := time.Since(start)

	require.Error(t, err)
	var internal *apperr.Internal
	require.ErrorAs(t, err, &internal)
	assert.Contains(t, err.Error(), "sleepy timed out after 1s")
	assert.Less(t, elapsed, 10*time.Second, "runner must not wait for the child's natural exit")
}

func TestRunnerTimeoutKillsProcessGroup(t *testing.T) {
	// 子进程再起孙进程；超时后整个进程组都要被杀掉
	marker := filepath.Join(t.TempDir(), "still-alive")
	script := writeScript(t, "spawner", `(sleep 2; touch `+marker+`) &
wait
`)
	runner := NewRunner(500 * time.Millisecond)

	_, err := runner.Run(context.Background(), script)
	require.Error(t, err)

	time.Sleep(3 * time.Second)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "grandchild survived the timeout kill")
}

func TestRunnerStartFailure(t *testing.T) {
	runner := NewRunner(time.Second)

	_, err := runner.Run(context.Background(), "/nonexistent/tool-binary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
	assert.NotContains(t, err.Error(), "timed out")
}

func TestTruncateStderr(t *testing.T) {
	long := make([]byte, 0, 400)
	for i := 0; i < 200; i++ {
		long = append(long, []byte("ab")...)
	}
	got := truncateStderr(long)
	assert.LessOrEqual(t, len(got), stderrExcerptBytes+len("..."))
	assert.Contains(t, got, "...")

	// 多字节字符不能被截成半个
	multi := []byte("错误：处理失败 " + string(long))
	assert.True(t, utf8.ValidString(truncateStderr(multi)))

	short := []byte("  tidy  ")
	assert.Equal(t, "tidy", truncateStderr(short))
}
