package bitvec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmpty is returned by Load when the input contains no lines.
var ErrEmpty = errors.New("bitvec: empty population")

// LineError reports a malformed input line with its location and content,
// so callers can point the user at the exact offending line.
type LineError struct {
	Line    int    // 0-based line number
	Content string // the offending line as read
	Reason  string // what was wrong with it
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// Load reads a population from r: one '0'/'1' string per line.
// The population must be square - the number of lines equals the width
// of every line. Validation happens here so the core pipeline never has
// to check vector shape. Returns a *LineError describing the first
// malformed line, or ErrEmpty for input with no lines at all.
func Load(r io.Reader) (*Population, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read population: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	n := len(lines)
	pop := &Population{Vectors: make([]Vector, n)}
	for i, line := range lines {
		if len(line) != n {
			return nil, &LineError{
				Line:    i,
				Content: line,
				Reason:  fmt.Sprintf("want %d bits, got %d", n, len(line)),
			}
		}
		v, err := Parse(i, line)
		if err != nil {
			return nil, &LineError{Line: i, Content: line, Reason: err.Error()}
		}
		pop.Vectors[i] = v
	}
	return pop, nil
}

// LoadFile reads a population from the file at path.
func LoadFile(path string) (*Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Write renders the population to w, one vector per line in index order.
// This is the same format Load reads.
func (p *Population) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range p.Vectors {
		if _, err := bw.WriteString(v.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
