package treeio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/tbl3rd/bvg/pkg/genealogy"
)

// WriteParents renders the parent array to w, one entry per line in
// vertex-index order. The progenitor renders as -1, distinguishable
// from every valid index.
func WriteParents(p genealogy.Parents, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, parent := range p {
		if _, err := fmt.Fprintln(bw, parent); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadParents parses the text format written by WriteParents.
// Entries must be integers; anything else fails with its line number.
func ReadParents(r io.Reader) (genealogy.Parents, error) {
	scanner := bufio.NewScanner(r)
	var parents genealogy.Parents
	line := 0
	for scanner.Scan() {
		text := scanner.Text()
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q is not an integer", line, text)
		}
		parents = append(parents, v)
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read parents: %w", err)
	}
	return parents, nil
}
