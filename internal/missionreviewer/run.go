package missionreviewer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// Result captures a finished run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Run executes bin in dir, relaying each stdout line at info and each stderr
// line at warn. A non-zero exit is returned as an error together with the
// captured result.
func Run(ctx context.Context, bin string, args []string, dir string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("run %s: %w", bin, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("run %s: %w", bin, err)
	}
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("run %s: start: %w", bin, err)
	}

	var outBuf, errBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)
	go relay(&wg, stdout, &outBuf, func(line string) { logger.InfoContext(ctx, line, "stream", "stdout") })
	go relay(&wg, stderr, &errBuf, func(line string) { logger.WarnContext(ctx, line, "stream", "stderr") })
	wg.Wait()

	waitErr := cmd.Wait()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			res.ExitCode = 1
		}
		return res, fmt.Errorf("run %s: %w", bin, waitErr)
	}
	return res, nil
}

// relay reads r to EOF so the child never blocks on a full pipe. Lines
// have no length limit.
func relay(wg *sync.WaitGroup, r io.Reader, buf *strings.Builder, emit func(string)) {
	defer wg.Done()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			buf.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteByte('\n')
			}
			if text := strings.TrimRight(line, "\r\n"); text != "" {
				emit(text)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				// Keep the pipe drained even when reading fails.
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
	}
}
