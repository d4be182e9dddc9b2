package speech

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// ConsoleEar reads typed commands, one per line. It stands in for the
// microphone when none is available or typed mode is requested.
type ConsoleEar struct {
	lines  chan string
	prompt func()
	log    *logger.Logger
}

// Compile-time interface check.
var _ domain.Listener = (*ConsoleEar)(nil)

// NewConsoleEar starts reading r in the background. prompt, if non-nil,
// is called before each wait for input.
func NewConsoleEar(r io.Reader, prompt func(), log *logger.Logger) *ConsoleEar {
	c := &ConsoleEar{
		lines:  make(chan string),
		prompt: prompt,
		log:    log,
	}
	go c.read(r)
	return c
}

func (c *ConsoleEar) read(r io.Reader) {
	defer close(c.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	if err := sc.Err(); err != nil {
		c.log.Error("console: read failed: %v", err)
	}
}

// Listen blocks for the next line. Timeouts do not apply to typing; a
// blank line counts as silence. End of input yields OutcomeClosed.
func (c *ConsoleEar) Listen(ctx context.Context, _, _ time.Duration) domain.RecognitionOutcome {
	if c.prompt != nil {
		c.prompt()
	}
	select {
	case <-ctx.Done():
		return domain.Outcome(domain.OutcomeTimeout)
	case line, ok := <-c.lines:
		if !ok {
			return domain.Outcome(domain.OutcomeClosed)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return domain.Outcome(domain.OutcomeTimeout)
		}
		return domain.TextOutcome(line)
	}
}
