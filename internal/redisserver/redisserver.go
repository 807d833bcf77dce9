// Package redisserver manages a local redis-server child process for the
// lifetime of the application.
package redisserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"syscall"
	"time"

	"github.com/Parsherm/country-finder/internal/domain"
	"github.com/Parsherm/country-finder/internal/logger"
)

const stopTimeout = 5 * time.Second

// Options configures the child process.
type Options struct {
	Path         string // redis-server binary, looked up on PATH if relative
	Addr         string // host:port the server should listen on
	StartTimeout time.Duration
}

// Server is a running redis-server child process.
type Server struct {
	cmd *exec.Cmd
	log *slog.Logger
}

// Start launches redis-server and waits until it accepts connections.
// Persistence is disabled; the cache contents are expendable.
func Start(ctx context.Context, opts Options) (*Server, error) {
	_, port, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis address %q: %w", opts.Addr, err)
	}

	log := logger.WithComponent("redisserver")
	cmd := exec.Command(opts.Path, "--port", port, "--save", "")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", domain.ErrUnavailable, opts.Path, err)
	}
	log.Info("started redis-server", "pid", cmd.Process.Pid, "addr", opts.Addr)

	srv := &Server{cmd: cmd, log: log}
	if err := WaitReady(ctx, opts.Addr, opts.StartTimeout); err != nil {
		_ = srv.Stop()
		return nil, err
	}
	return srv, nil
}

// WaitReady polls addr until it accepts a TCP connection or the timeout
// elapses.
func WaitReady(ctx context.Context, addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 250*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %s did not become ready within %s", domain.ErrUnavailable, addr, timeout)
}

// Stop terminates the child process, asking politely first.
func (s *Server) Stop() error {
	if s.cmd.Process == nil {
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = s.cmd.Process.Kill()
		return s.waitExit()
	}

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case <-done:
		s.log.Info("redis-server stopped", "pid", s.cmd.Process.Pid)
		return nil
	case <-time.After(stopTimeout):
		s.log.Warn("redis-server did not exit, killing", "pid", s.cmd.Process.Pid)
		_ = s.cmd.Process.Kill()
		<-done
		return nil
	}
}

func (s *Server) waitExit() error {
	// Wait reaps the child; the exit status of a killed process is not an
	// error worth surfacing.
	_ = s.cmd.Wait()
	return nil
}
