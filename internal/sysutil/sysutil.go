// Package sysutil holds process-level helpers: global log configuration and
// the supervisor that turns goroutine panics into diagnosable, logged faults.
package sysutil

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogLevel configures the global zerolog level based on a string value.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetupLogger installs the global logger. Pretty selects the console
// writer; otherwise JSON lines go to w.
func SetupLogger(w io.Writer, level string, pretty bool, service string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	SetLogLevel(level)
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}

// IsTruthy reports whether an interactive answer or flag string should be
// considered true. Accepted values (case-insensitive): "1", "true", "yes",
// "y", "on".
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Supervisor recovers panics in the goroutines it runs, logs them with
// process diagnostics, and exits the process in production.
type Supervisor struct {
	production bool
	started    time.Time
	exit       func(code int)
	wg         sync.WaitGroup
}

// NewSupervisor returns a Supervisor. production selects exit-on-fault.
func NewSupervisor(production bool) *Supervisor {
	return &Supervisor{production: production, started: time.Now(), exit: os.Exit}
}

// Go runs fn on a new goroutine under Recover.
func (s *Supervisor) Go(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.Recover(name)
		fn()
	}()
}

// Wait blocks until every goroutine started with Go has returned.
func (s *Supervisor) Wait() { s.wg.Wait() }

// Recover must be deferred. It logs a recovered panic at fatal level and,
// in production, exits with status 1.
func (s *Supervisor) Recover(name string) {
	r := recover()
	if r == nil {
		return
	}
	s.report(name, r)
	if s.production {
		s.exit(1)
	}
}

func (s *Supervisor) report(name string, r any) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	// WithLevel logs at fatal without zerolog's implicit os.Exit.
	log.WithLevel(zerolog.FatalLevel).
		Str("event", "process_fault").
		Str("goroutine", name).
		Str("panic", fmt.Sprint(r)).
		Int("pid", os.Getpid()).
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("heap_alloc_bytes", ms.HeapAlloc).
		Uint64("sys_bytes", ms.Sys).
		Uint32("num_gc", ms.NumGC).
		Dur("uptime", time.Since(s.started)).
		Str("go_version", runtime.Version()).
		Bool("exiting", s.production).
		Bytes("stack", debug.Stack()).
		Msg("unrecovered panic")
}
