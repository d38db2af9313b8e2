package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/pipeline"
)

// exportCommand creates the export command for serialized and rendered
// output.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		percent int
		format  string
		output  string
		vectors bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "export [population.txt]",
		Short: "Export an inferred genealogy as JSON, DOT, SVG, or PNG",
		Long: `Export an inferred genealogy as JSON, DOT, SVG, or PNG.

Runs the same inference as 'infer', then serializes the tree:

  parents  plain parent table, one entry per line
  json     node-link graph with depths and the root flag
  dot      Graphviz source
  svg,png  rendered image (the progenitor gets a doubled outline)

Rendered images are cached alongside inference results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			if !cmd.Flags().Changed("percent") {
				percent = c.config.Percent
			}
			return c.runExport(cmd, args[0], percent, format, output, vectors, noCache, refresh)
		},
	}

	cmd.Flags().IntVarP(&percent, "percent", "p", 20, "mutation percentage in [0,100]")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: parents, json, dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&vectors, "vectors", false, "label nodes with their bit strings")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached artifacts exist")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, input string, percent int, format, output string, vectors, noCache, refresh bool) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return fmt.Errorf("read population %s: %w", input, err)
	}

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(cmd.Context(), fmt.Sprintf("Exporting %s...", format))
	spinner.Start()

	result, err := runner.InferBytes(cmd.Context(), data, pipeline.Options{
		Percent: percent,
		Refresh: refresh,
	})
	if err != nil {
		spinner.StopWithError("Inference failed")
		return err
	}

	// The population only matters when nodes carry bit strings.
	var pop *bitvec.Population
	if vectors {
		if pop, err = bitvec.Load(bytes.NewReader(data)); err != nil {
			spinner.StopWithError("Export failed")
			return err
		}
	}

	artifact, err := runner.Export(cmd.Context(), result, pop, percent, pipeline.ExportOptions{
		Format:  format,
		Vectors: vectors,
		Refresh: refresh,
	})
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return cmd.Context().Err()
	}

	outputPath := output
	if outputPath == "" {
		if input == "-" {
			outputPath = "genealogy." + format
		} else {
			outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
		}
	}

	if err := os.WriteFile(outputPath, artifact, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(result.Stats.VectorCount, result.Stats.EdgeCount, result.CacheHit)

	return nil
}
