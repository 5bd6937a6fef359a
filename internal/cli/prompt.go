package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errQuit is returned by readLine when the user asks to stop.
var errQuit = errors.New("quit")

// prompter reads one command per line. Prompts are only printed when the
// input is a terminal so piped output stays clean.
type prompter struct {
	scanner     *bufio.Scanner
	out         io.Writer
	interactive bool
}

func newPrompter(in io.Reader, out io.Writer, interactive bool) *prompter {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &prompter{scanner: s, out: out, interactive: interactive}
}

// readLine prints label (interactively) and returns the next trimmed line.
// End of input is io.EOF; "q", "quit" and "/quit" are errQuit.
func (p *prompter) readLine(label string) (string, error) {
	if p.interactive {
		fmt.Fprint(p.out, label)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(p.scanner.Text())
	switch strings.ToLower(line) {
	case "q", "quit", "/quit":
		return "", errQuit
	}
	return line, nil
}

// optionLabel renders 0 as "A", 1 as "B" and so on.
func optionLabel(i int) string {
	return string(rune('A' + i))
}

// parseOption accepts a letter (A, b) or a 1-based number.
func parseOption(s string, count int) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < count {
			return int(c - 'a'), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= count {
		return n - 1, true
	}
	return 0, false
}
