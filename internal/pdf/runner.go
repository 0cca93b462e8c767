package pdf

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/pkg/logger"
)

// stderr 摘录上限，超出部分截断（保持 UTF-8 边界）
const stderrExcerptBytes = 300

// Runner 以固定时间预算执行外部工具，完整捕获输出。
// 超时会杀掉子进程所在的整个进程组，不留孤儿进程。
type Runner struct {
	timeout time.Duration
}

type RunResult struct {
	Stdout []byte
	Stderr []byte
}

func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

func (r *Runner) Run(ctx context.Context, bin string, args ...string) (*RunResult, error) {
	tool := filepath.Base(bin)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	if err := cmd.Start(); err != nil {
		return nil, apperr.Internalf("failed to start %s: %v", tool, err)
	}

	err := cmd.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, apperr.Internalf("%s timed out after %ds", tool, int(r.timeout.Seconds()))
	}
	if err != nil {
		logger.Errorf("%s exited with error: %v, stderr: %s", tool, err, stderr.String())
		return nil, apperr.Internalf("%s failed: %s", tool, truncateStderr(stderr.Bytes()))
	}

	return &RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

func truncateStderr(b []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "�")
	if len(s) <= stderrExcerptBytes {
		return s
	}
	cut := s[:stderrExcerptBytes]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
