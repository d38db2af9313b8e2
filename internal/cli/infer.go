package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbl3rd/bvg/pkg/pipeline"
	"github.com/tbl3rd/bvg/pkg/treeio"
)

// inferCommand creates the infer command, the primary operation.
func (c *CLI) inferCommand() *cobra.Command {
	var (
		percent int
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "infer [population.txt]",
		Short: "Infer the genealogy of a bit vector population",
		Long: `Infer the genealogy of a bit vector population.

The input is a text file with one vector per line, each line a string
of '0' and '1' characters. A population of N members must use vectors
of exactly N bits. Pass "-" to read from stdin.

The output is the parent table: line i holds the index of member i's
parent, or -1 for the progenitor.

Results are cached locally, keyed by input content and mutation rate,
so repeated runs over the same population are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("percent") {
				percent = c.config.Percent
			}
			return c.runInfer(cmd, args[0], percent, output, noCache, refresh)
		},
	}

	cmd.Flags().IntVarP(&percent, "percent", "p", 20, "mutation percentage in [0,100]")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runInfer loads the population, runs the pipeline, and writes the
// parent table.
func (c *CLI) runInfer(cmd *cobra.Command, input string, percent int, output string, noCache, refresh bool) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return fmt.Errorf("read population %s: %w", input, err)
	}

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(cmd.Context(), "Inferring genealogy...")
	spinner.Start()

	result, err := runner.InferBytes(cmd.Context(), data, pipeline.Options{
		Percent: percent,
		Refresh: refresh,
	})
	if err != nil {
		spinner.StopWithError("Inference failed")
		return err
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return cmd.Context().Err()
	}

	if output == "" {
		return treeio.WriteParents(result.Parents, cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output %s: %w", output, err)
	}
	defer f.Close()
	if err := treeio.WriteParents(result.Parents, f); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Genealogy inferred, root is %d", result.Root)
	printFile(output)
	printStats(result.Stats.VectorCount, result.Stats.EdgeCount, result.CacheHit)
	printNewline()
	printNextStep("Visualize", "bvg export "+input+" -f svg")

	return nil
}
