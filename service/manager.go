package service

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/soulgarden/bfx-postonly/dictionary"
)

type Manager struct {
	logger *zerolog.Logger
}

func NewManager(logger *zerolog.Logger) *Manager {
	return &Manager{logger: logger}
}

// ListenSignal returns a context cancelled by SIGINT or SIGTERM and a stop
// func that releases the signal handler once the command is done. After a
// signal the process exits if it has not stopped within ShutDownDuration or
// when a second signal arrives.
func (s *Manager) ListenSignal() (context.Context, context.CancelFunc) {
	interrupt := make(chan os.Signal, dictionary.SignalChLen)
	stopped := make(chan struct{})

	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	var once sync.Once

	stop := func() {
		once.Do(func() {
			signal.Stop(interrupt)
			close(stopped)
			cancel()
		})
	}

	go func() {
		select {
		case sig := <-interrupt:
			s.logger.Warn().Str("signal", sig.String()).Msg("interrupt signal received, cancelling submissions")

			cancel()
		case <-stopped:
			return
		}

		select {
		case <-interrupt:
			s.logger.Warn().Msg("second interrupt signal received")
		case <-time.After(dictionary.ShutDownDuration):
			s.logger.Warn().Msg("killed by shutdown timeout")
		case <-stopped:
			return
		}

		os.Exit(1)
	}()

	return ctx, stop
}
