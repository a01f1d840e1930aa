package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/tradingengine/core"
	"github.com/philipp01105/tradingengine/formatter"
	"github.com/philipp01105/tradingengine/writer"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Filename = "TradingEngine"
	cfg.FileExtension = "log"
	return cfg
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestLogger_StartingStopped(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatalf("NewTextLogger() error = %v", err)
	}

	log.Information("Core", "Starting")
	log.Information("Core", "Stopped")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := readLines(t, log.Path())
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	for i, want := range []string{"Starting", "Stopped"} {
		p, err := formatter.ParseLine(lines[i], nil)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if p.Level != Information || p.Message != want {
			t.Errorf("line %d = %+v, want Information %q", i, p, want)
		}
		if p.ThreadID != core.GoroutineID() {
			t.Errorf("line %d thread id = %d, want %d", i, p.ThreadID, core.GoroutineID())
		}
		if !strings.Contains(lines[i], "] [Information] "+want) {
			t.Errorf("line %d = %q", i, lines[i])
		}
	}
}

func TestLogger_FileLayout(t *testing.T) {
	cfg := testConfig(t)
	cfg.FileExtension = ".txt"
	now := time.Date(2026, 10, 17, 9, 30, 15, 0, time.Local)

	log, err := NewBuilder(cfg).WithClock(func() time.Time { return now }).BuildText()
	if err != nil {
		t.Fatalf("BuildText() error = %v", err)
	}
	defer log.Close()

	want := filepath.Join(cfg.Directory, "2026-10-17", "TradingEngine-09-30-15.txt")
	if log.Path() != want {
		t.Errorf("Path() = %q, want %q", log.Path(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("log file not created before BuildText returned: %v", err)
	}
	if log.Kind() != TextKind {
		t.Errorf("Kind() = %v", log.Kind())
	}
}

func TestLogger_SequentialOrderAndFormat(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	restore := core.NameGoroutine("sequencer")
	levels := []Level{Debug, Information, Warning, Error, Critical}
	for i := 0; i < 500; i++ {
		log.Log(levels[i%len(levels)], "Seq", fmt.Sprintf("message %d", i))
	}
	restore()
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, log.Path())
	if len(lines) != 500 {
		t.Fatalf("got %d lines, want 500", len(lines))
	}
	for i, line := range lines {
		p, err := formatter.ParseLine(line, nil)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if p.Message != fmt.Sprintf("message %d", i) || p.Level != levels[i%len(levels)] {
			t.Fatalf("line %d = %+v", i, p)
		}
		if p.ThreadName != "sequencer" {
			t.Fatalf("line %d thread name = %q", i, p.ThreadName)
		}
	}
}

func TestLogger_ConcurrentProducers(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	const producers = 8
	const perProducer = 500
	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			defer core.NameGoroutine(fmt.Sprintf("producer-%d", p))()
			for i := 0; i < perProducer; i++ {
				log.Information("Load", fmt.Sprintf("%d/%d", p, i))
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	next := make(map[string]int)
	for _, line := range readLines(t, log.Path()) {
		p, err := formatter.ParseLine(line, nil)
		if err != nil {
			t.Fatal(err)
		}
		if seen[p.Message] {
			t.Fatalf("record %q written twice", p.Message)
		}
		seen[p.Message] = true

		var prod, i int
		fmt.Sscanf(p.Message, "%d/%d", &prod, &i)
		if p.ThreadName != fmt.Sprintf("producer-%d", prod) {
			t.Errorf("record %q carries thread name %q", p.Message, p.ThreadName)
		}
		if key := p.ThreadName; i != next[key] {
			t.Fatalf("producer %d out of order: got %d, want %d", prod, i, next[key])
		}
		next[p.ThreadName]++
	}
	if len(seen) != producers*perProducer {
		t.Errorf("got %d distinct records, want %d", len(seen), producers*perProducer)
	}
}

func TestLogger_CloseConcurrently(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	log.Information("Core", "only line")

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				errs <- log.Close()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
	if !log.Closed() {
		t.Error("Closed() = false after Close")
	}
	if st := log.Status(); st.State != writer.Closed || st.Alive {
		t.Errorf("Status() = %+v after Close", st)
	}
	if lines := readLines(t, log.Path()); len(lines) != 1 {
		t.Errorf("got %d lines, want 1", len(lines))
	}
}

func TestLogger_LogAfterCloseIsDropped(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	log.Warning("Core", "before close")
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	log.Warning("Core", "after close")
	log.Error("Core", "after close")

	if lines := readLines(t, log.Path()); len(lines) != 1 {
		t.Errorf("got %d lines, want 1: %q", len(lines), lines)
	}
	st := log.Stats()
	if st.Rejected != 2 || st.Posted != 1 || st.Written != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestLogger_DropOnClose(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shutdown = writer.DropOnClose
	log, err := NewTextLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		log.Debug("Burst", "x")
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	st := log.Stats()
	if st.Written+st.Abandoned != 1000 {
		t.Errorf("written %d + abandoned %d != 1000", st.Written, st.Abandoned)
	}
	if got := len(readLines(t, log.Path())); uint64(got) != st.Written {
		t.Errorf("file has %d lines, Stats says %d written", got, st.Written)
	}
}

func TestLogger_ConfigurationMismatch(t *testing.T) {
	base := t.TempDir()
	cfg := Config{Kind: ConsoleKind, Directory: filepath.Join(base, "logs"), Filename: "x", FileExtension: "log"}

	log, err := NewTextLogger(cfg)
	if !errors.Is(err, core.ErrConfigurationMismatch) {
		t.Fatalf("NewTextLogger() error = %v, want ErrConfigurationMismatch", err)
	}
	if log != nil {
		t.Error("NewTextLogger() returned a logger on mismatch")
	}
	if _, err := os.Stat(cfg.Directory); !os.IsNotExist(err) {
		t.Errorf("mismatch created %s (stat err %v)", cfg.Directory, err)
	}

	cfg.Kind = TextKind
	if _, err := NewConsoleLogger(cfg); !errors.Is(err, core.ErrConfigurationMismatch) {
		t.Errorf("NewConsoleLogger() error = %v, want ErrConfigurationMismatch", err)
	}
}

func TestLogger_InvalidConfig(t *testing.T) {
	tests := []Config{
		{Kind: TextKind, Directory: "", Filename: "x"},
		{Kind: TextKind, Directory: t.TempDir(), Filename: ""},
		{Kind: TextKind, Directory: t.TempDir(), Filename: "a/b"},
	}
	for _, cfg := range tests {
		if _, err := NewTextLogger(cfg); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("NewTextLogger(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestLogger_SameSecondCollision(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }

	first, err := NewBuilder(cfg).WithClock(clock).BuildText()
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	second, err := NewBuilder(cfg).WithClock(clock).BuildText()
	if !core.IsFileCreateError(err) {
		t.Fatalf("second BuildText() error = %v, want FileCreateError", err)
	}
	if second != nil {
		t.Error("second BuildText() returned a logger")
	}
}

func TestLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewBuilder(Config{Kind: ConsoleKind}).WithWriter(&buf).BuildConsole()
	if err != nil {
		t.Fatal(err)
	}
	log.Logf(Error, "Risk", "limit %d exceeded", 5)
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	if log.Path() != "" {
		t.Errorf("console Path() = %q", log.Path())
	}
	if !strings.HasSuffix(buf.String(), "] [Error] limit 5 exceeded\n") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestLogger_CleanupStopsUnreachableLogger(t *testing.T) {
	log, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	done := log.Done()
	log = nil

	deadline := time.After(5 * time.Second)
	for {
		runtime.GC()
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("writer of an unreachable logger was not stopped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Console"); err != nil || k != ConsoleKind {
		t.Errorf("ParseKind(Console) = %v, %v", k, err)
	}
	if k, err := ParseKind("text"); err != nil || k != TextKind {
		t.Errorf("ParseKind(text) = %v, %v", k, err)
	}
	if _, err := ParseKind("database"); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("ParseKind(database) error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewBuilder(Config{Kind: ConsoleKind}).WithWriter(&buf).BuildConsole()
	if err != nil {
		t.Fatal(err)
	}

	prev := SetDefault(l)
	defer SetDefault(prev)

	if Default() != l {
		t.Fatal("Default() did not return the logger passed to SetDefault")
	}
	Log(Warning, "Core", "via default")
	Logf(Information, "Core", "%d orders", 3)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "] [Warning] via default\n") || !strings.Contains(out, "] [Information] 3 orders\n") {
		t.Errorf("default output = %q", out)
	}
}

func TestLogger_Sync(t *testing.T) {
	l, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		l.Information("Core", fmt.Sprintf("msg %d", i))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Sync(ctx); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if got := len(readLines(t, l.Path())); got != 1000 {
		t.Fatalf("got %d lines after Sync, want 1000", got)
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	// a closed logger has nothing left to wait for
	if err := l.Sync(ctx); err != nil {
		t.Errorf("Sync() after Close error = %v", err)
	}

	info, err := os.Stat(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Stats().BytesWritten; got != uint64(info.Size()) {
		t.Errorf("BytesWritten = %d, file size %d", got, info.Size())
	}
}

func TestLogger_SyncHonoursContext(t *testing.T) {
	l, err := NewTextLogger(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Information("Core", "pending")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// either the writer already caught up or the cancelled context wins
	if err := l.Sync(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Sync() error = %v", err)
	}
}
