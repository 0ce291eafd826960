// Package console abstracts terminal interaction so commands can be tested
// against a scripted console.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Console writes output lines and reads input lines.
type Console interface {
	Print(args ...any)
	Printf(format string, args ...any)
	ReadLine() (string, error)
}

// Standard talks to stdout and stdin.
type Standard struct {
	mu     sync.Mutex
	out    io.Writer
	reader *bufio.Reader
}

// NewStandard returns a console on os.Stdout and os.Stdin.
func NewStandard() *Standard {
	return &Standard{out: os.Stdout, reader: bufio.NewReader(os.Stdin)}
}

// NewWriter returns a console writing to w. Reads report io.EOF.
func NewWriter(w io.Writer) *Standard {
	return &Standard{out: w, reader: bufio.NewReader(strings.NewReader(""))}
}

func (c *Standard) Print(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, args...)
}

func (c *Standard) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine reads one line from input, without the trailing newline.
func (c *Standard) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Memory records output and serves scripted input lines. Safe for
// concurrent use.
type Memory struct {
	mu     sync.Mutex
	lines  []string
	input  []string
	cursor int
}

// NewMemory returns a recording console with the given scripted input.
func NewMemory(input ...string) *Memory {
	return &Memory{input: input}
}

func (c *Memory) Print(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
}

func (c *Memory) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// ReadLine returns the next scripted input line, io.EOF when exhausted.
func (c *Memory) ReadLine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor >= len(c.input) {
		return "", io.EOF
	}
	line := c.input[c.cursor]
	c.cursor++
	return line, nil
}

// Lines returns a copy of everything printed so far.
func (c *Memory) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Output joins the printed lines with newlines.
func (c *Memory) Output() string {
	return strings.Join(c.Lines(), "\n")
}
