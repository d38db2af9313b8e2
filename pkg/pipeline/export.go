package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/cache"
	"github.com/tbl3rd/bvg/pkg/errors"
	"github.com/tbl3rd/bvg/pkg/observability"
	"github.com/tbl3rd/bvg/pkg/treeio"
)

// Export formats.
const (
	FormatParents = "parents"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatPNG     = "png"
)

// ValidFormats lists the supported export formats in display order.
var ValidFormats = []string{FormatParents, FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// ValidateFormat checks that format names a supported export format.
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if format == f {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q (valid: %v)", format, ValidFormats)
}

// ExportOptions configures artifact generation.
type ExportOptions struct {
	// Format selects the output representation.
	Format string

	// Vectors labels each node with its bit string in graph formats.
	Vectors bool

	// Refresh bypasses the artifact cache.
	Refresh bool
}

// Export serializes an inference result in the requested format.
// Rendered images are cached under the population hash; text formats
// are cheap enough to regenerate every time. pop may be nil, in which
// case graph formats omit bit-string labels.
func (r *Runner) Export(ctx context.Context, result *Result, pop *bitvec.Population, percent int, opts ExportOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatParents:
		var buf bytes.Buffer
		if err := treeio.WriteParents(result.Parents, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return treeio.MarshalGraph(treeio.FromParents(result.Parents, pop))
	case FormatDOT:
		dot := treeio.ToDOT(treeio.FromParents(result.Parents, pop), treeio.DOTOptions{Vectors: opts.Vectors})
		return []byte(dot), nil
	}

	// Rendered formats go through the artifact cache. The key includes
	// the vector-label flag since it changes the output.
	key := cache.ArtifactKey(result.PopHash, percent, opts.Format)
	if opts.Vectors {
		key += ":labeled"
	}
	if !opts.Refresh && result.PopHash != "" {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			r.logger.Debug("artifact cache hit", "key", key)
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	dot := treeio.ToDOT(treeio.FromParents(result.Parents, pop), treeio.DOTOptions{Vectors: opts.Vectors})

	var data []byte
	var err error
	switch opts.Format {
	case FormatSVG:
		data, err = treeio.RenderSVG(dot)
	case FormatPNG:
		data, err = treeio.RenderPNG(dot)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if result.PopHash != "" {
		if err := r.cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
			r.logger.Warn("artifact cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, nil
}
