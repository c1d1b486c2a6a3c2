package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/fsnotify/fsnotify"
)

// TailOptions configures the tailer behavior.
type TailOptions struct {
	FilePath     string                      // Path to the log file
	Lines        int                         // Number of initial lines to show
	Follow       bool                        // Whether to follow the file for new content
	FollowRotate bool                        // Whether to follow through log rotations
	OutputFunc   func(config.LogEntry) error // Called for each entry that survives the pipeline
}

// Tailer follows a log file and pushes each line through the suppression
// pipeline before output.
type Tailer struct {
	opts    TailOptions
	runner  *Runner
	parser  *Parser
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
}

// NewTailer creates a Tailer that filters through the given Runner.
func NewTailer(runner *Runner, opts TailOptions) *Tailer {
	return &Tailer{
		opts:   opts,
		runner: runner,
		parser: NewParser(),
	}
}

// Run starts the tailing process. It blocks until context is cancelled or an error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer t.close()

	if t.opts.Lines > 0 {
		if err := t.readInitialLines(); err != nil {
			return fmt.Errorf("failed to read initial lines: %w", err)
		}
	}

	if !t.opts.Follow {
		return nil
	}

	if err := t.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer t.watcher.Close()

	return t.watch(ctx)
}

// openFile opens the log file and records the end position when following.
func (t *Tailer) openFile() error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return err
	}
	t.file = f

	if t.opts.Follow {
		stat, err := f.Stat()
		if err != nil {
			return err
		}
		t.offset = stat.Size()
	}

	return nil
}

// readInitialLines reads and displays the last N surviving lines from the file.
func (t *Tailer) readInitialLines() error {
	stat, err := t.file.Stat()
	if err != nil {
		return err
	}
	fileSize := stat.Size()
	if fileSize == 0 {
		return nil
	}

	// Heuristic starting position: ~300 bytes per line, doubled for slack
	estimatedBytesNeeded := int64(t.opts.Lines * 300 * 2)
	startPos := fileSize - estimatedBytesNeeded
	if startPos < 0 {
		startPos = 0
	}

	if _, err := t.file.Seek(startPos, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.file)
	scanner.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	// Skip the first partial line when starting mid-file
	if startPos > 0 {
		scanner.Scan()
	}

	var entries []config.LogEntry
	linesRead := 0
	for scanner.Scan() {
		linesRead++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := t.runner.Apply(t.parser.ParseLine(line, linesRead))
		if ok {
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(entries) > t.opts.Lines {
		entries = entries[len(entries)-t.opts.Lines:]
	}

	for _, entry := range entries {
		if err := t.opts.OutputFunc(entry); err != nil {
			return err
		}
	}

	t.offset, err = t.file.Seek(0, io.SeekEnd)
	return err
}

// setupWatcher initializes the fsnotify watcher.
func (t *Tailer) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = watcher

	return watcher.Add(t.opts.FilePath)
}

// watch monitors the file for changes and outputs new surviving lines.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := t.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent processes a file system event.
func (t *Tailer) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return t.readNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		// Log rotation
		return t.handleRotation(ctx)
	}

	return nil
}

// readNewContent reads and outputs new content added to the file.
func (t *Tailer) readNewContent() error {
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.file)
	scanner.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := t.runner.Apply(t.parser.ParseLine(line, lineNum))
		if !ok {
			continue
		}
		if err := t.opts.OutputFunc(entry); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	t.offset, err = t.file.Seek(0, io.SeekCurrent)
	return err
}

// handleRotation handles log file rotation.
func (t *Tailer) handleRotation(ctx context.Context) error {
	if !t.opts.FollowRotate {
		fmt.Fprintf(os.Stderr, "\nFile rotated. Exiting. Use --follow-rotate to follow through rotations.\n")
		return fmt.Errorf("file rotated")
	}

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	// Wait for the new file to appear (with timeout)
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(t.opts.FilePath)
			if err != nil {
				continue
			}
			t.file = f
			t.offset = 0

			if err := t.watcher.Add(t.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}
			return t.readNewContent()
		}
	}
}

// close releases the tailer's file handle.
func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}
