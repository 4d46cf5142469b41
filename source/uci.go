package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultHandshakeTimeout = 1500 * time.Millisecond
	defaultMoveTime         = time.Second
	// Extra time allowed on top of the requested move time before giving up.
	bestMoveGrace = 15 * time.Second
	quitGrace     = 500 * time.Millisecond
)

var errTimeout = errors.New("timed out")

// UCIConfig describes how to launch and drive an external UCI engine.
type UCIConfig struct {
	Path string
	Args []string
	// Extra environment entries added to the current environment.
	Env []string

	// Search limits sent with "go". A zero Depth is omitted; a zero MoveTime
	// defaults to one second.
	Depth    int
	MoveTime time.Duration

	// Time allowed for "uciok" and "readyok". Defaults to 1.5s.
	HandshakeTimeout time.Duration

	// Logger receives lifecycle messages. Defaults to log.Default().
	Logger *log.Logger
}

// UCIEngine is a running external engine. BestMove calls are serialised.
type UCIEngine struct {
	cfg   UCIConfig
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
	done  chan struct{}
	wg    sync.WaitGroup
	log   *log.Logger
	name  string

	mu     sync.Mutex
	closed bool
}

// StartUCI launches the engine and performs the uci/isready handshake. Any
// failure is reported as ErrEngineUnavailable and leaves no process behind.
func StartUCI(ctx context.Context, cfg UCIConfig) (*UCIEngine, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: no engine path", ErrEngineUnavailable)
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.MoveTime <= 0 {
		cfg.MoveTime = defaultMoveTime
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	cmd := exec.Command(cfg.Path, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %w", ErrEngineUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrEngineUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %w", ErrEngineUnavailable, cfg.Path, err)
	}

	e := &UCIEngine{
		cfg:   cfg,
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 256),
		done:  make(chan struct{}),
		log:   cfg.Logger,
	}
	e.wg.Add(1)
	go e.readLoop(stdout)

	if err := e.handshake(ctx); err != nil {
		e.log.Printf("uci %s: handshake failed: %v", cfg.Path, err)
		e.Close()
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}
	e.log.Printf("uci %s: ready (%s)", cfg.Path, e.Name())
	return e, nil
}

func (e *UCIEngine) handshake(ctx context.Context) error {
	if err := e.send("uci"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, "uciok", e.cfg.HandshakeTimeout); err != nil {
		return fmt.Errorf("waiting for uciok: %w", err)
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, "readyok", e.cfg.HandshakeTimeout); err != nil {
		return fmt.Errorf("waiting for readyok: %w", err)
	}
	return nil
}

// Name returns the engine's "id name", or its path when it did not send one.
func (e *UCIEngine) Name() string {
	if e.name != "" {
		return e.name
	}
	return e.cfg.Path
}

// BestMove sends the position and a search command, then waits for "bestmove". It
// gives up after the move time plus a grace period, or when ctx ends, and asks the
// engine to stop.
func (e *UCIEngine) BestMove(ctx context.Context, fen string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", fmt.Errorf("%w: engine closed", ErrEngineUnavailable)
	}

	e.drain()
	if err := e.send("position fen " + fen); err != nil {
		return "", err
	}
	if err := e.send(e.goCommand()); err != nil {
		return "", err
	}

	line, err := e.waitFor(ctx, "bestmove", e.cfg.MoveTime+bestMoveGrace)
	if err != nil {
		_ = e.send("stop")
		if errors.Is(err, errTimeout) {
			e.log.Printf("uci %s: no bestmove for %s", e.Name(), fen)
			return "", fmt.Errorf("%w: %w", ErrNoMove, err)
		}
		return "", err
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[1] == "(none)" || fields[1] == "0000" {
		return "", fmt.Errorf("%w: %q", ErrNoMove, line)
	}
	return fields[1], nil
}

func (e *UCIEngine) goCommand() string {
	var sb strings.Builder
	sb.WriteString("go")
	if e.cfg.Depth > 0 {
		sb.WriteString(" depth ")
		sb.WriteString(strconv.Itoa(e.cfg.Depth))
	}
	sb.WriteString(" movetime ")
	sb.WriteString(strconv.FormatInt(e.cfg.MoveTime.Milliseconds(), 10))
	return sb.String()
}

// Close sends "quit", then kills the process if it has not exited shortly after.
// It is safe to call more than once.
func (e *UCIEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	_ = e.send("quit")
	e.stdin.Close()
	close(e.done)

	// The reader must be finished with stdout before Wait closes it. It stops at
	// EOF once the process exits, so an engine ignoring quit is killed.
	grace := time.NewTimer(quitGrace)
	defer grace.Stop()
	readerDone := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(readerDone)
	}()
	select {
	case <-readerDone:
	case <-grace.C:
		_ = e.cmd.Process.Kill()
		<-readerDone
	}

	exited := make(chan error, 1)
	go func() { exited <- e.cmd.Wait() }()
	var err error
	select {
	case err = <-exited:
	case <-grace.C:
		_ = e.cmd.Process.Kill()
		err = <-exited
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Killed or non-zero exit after quit is not worth reporting.
		return nil
	}
	return err
}

func (e *UCIEngine) send(line string) error {
	if _, err := io.WriteString(e.stdin, line+"\n"); err != nil {
		return fmt.Errorf("%w: write %q: %w", ErrEngineUnavailable, line, err)
	}
	return nil
}

func (e *UCIEngine) readLoop(r io.Reader) {
	defer e.wg.Done()
	defer close(e.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case e.lines <- line:
		case <-e.done:
			return
		}
	}
}

// drain discards output left over from an earlier, abandoned search.
func (e *UCIEngine) drain() {
	for {
		select {
		case _, ok := <-e.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// waitFor returns the first line whose first token is token. Lines read on the
// way are dropped, apart from "id name" which is remembered.
func (e *UCIEngine) waitFor(ctx context.Context, token string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-e.lines:
			if !ok {
				return "", fmt.Errorf("%w: engine exited", ErrEngineUnavailable)
			}
			if name, ok := strings.CutPrefix(line, "id name "); ok {
				e.name = name
			}
			if first, _, _ := strings.Cut(line, " "); first == token {
				return line, nil
			}
		case <-timer.C:
			return "", fmt.Errorf("%w after %v waiting for %q", errTimeout, timeout, token)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
