package genealogy

import (
	"errors"
	"fmt"

	"github.com/tbl3rd/bvg/pkg/bitvec"
)

var (
	// ErrIncomplete is returned by [Span] when the assembled structure
	// does not cover the entire population.
	ErrIncomplete = errors.New("genealogy: cannot relate entire population")

	// ErrNonConvergence is returned by [Extract] when leaf peeling stalls
	// with more than one vertex remaining, meaning the input structure
	// contained a cycle or was otherwise not a tree.
	ErrNonConvergence = errors.New("genealogy: genealogy did not converge")

	// ErrPercentRange is returned by [NewMetric] for a mutation
	// percentage outside [0,100].
	ErrPercentRange = errors.New("genealogy: mutation percentage out of range [0,100]")
)

// Metric scores the relatedness of two bit vectors. Two vectors whose
// Hamming distance equals the expected mutation count are maximally
// related (distance 0); differing by much more or much less than
// expected counts against relatedness. The score is symmetric but has
// no triangle-inequality guarantee.
//
// The expected count depends only on the vector width and the mutation
// percentage, so it is computed once per run and threaded through the
// metric value rather than kept in shared state.
type Metric struct {
	expected int
}

// NewMetric builds a metric for vectors of the given width and an
// integer mutation percentage in [0,100].
func NewMetric(width, percent int) (Metric, error) {
	if percent < 0 || percent > 100 {
		return Metric{}, fmt.Errorf("%w: %d", ErrPercentRange, percent)
	}
	return Metric{expected: width * percent / 100}, nil
}

// Expected returns the expected mutation count floor(width*percent/100).
func (m Metric) Expected() int { return m.expected }

// Distance returns the normalized bit distance between a and b:
// the absolute difference between their Hamming distance and the
// expected mutation count. Always non-negative.
func (m Metric) Distance(a, b bitvec.Vector) int {
	d := a.Hamming(b)
	if d > m.expected {
		return d - m.expected
	}
	return m.expected - d
}
