package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/genealogy"
	"github.com/tbl3rd/bvg/pkg/treeio"
)

// generateCommand creates the generate command for synthesizing test
// populations.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		percent     int
		seed        int64
		output      string
		parentsFile string
	)

	cmd := &cobra.Command{
		Use:   "generate [size]",
		Short: "Generate a synthetic population by simulated descent",
		Long: `Generate a synthetic population by simulated descent.

A random progenitor of [size] bits is drawn, then members are spawned
one at a time from randomly chosen existing members, flipping each bit
with the given mutation probability. The finished population is
shuffled so member order carries no ancestry information.

With --parents, the true parent table is saved alongside, letting you
score an inference run against ground truth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("population size %q is not an integer", args[0])
			}
			if !cmd.Flags().Changed("percent") {
				percent = c.config.Percent
			}
			return c.runGenerate(cmd, n, percent, seed, output, parentsFile)
		},
	}

	cmd.Flags().IntVarP(&percent, "percent", "p", 20, "mutation percentage in [0,100]")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&parentsFile, "parents", "", "also write the true parent table to this file")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, n, percent int, seed int64, output, parentsFile string) error {
	prog := newProgress(c.Logger)
	pop, trueParents, err := bitvec.Evolve(n, bitvec.EvolveOptions{Percent: percent, Seed: seed})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Evolved %d vectors", n))

	if parentsFile != "" {
		f, err := os.Create(parentsFile)
		if err != nil {
			return fmt.Errorf("create parents file %s: %w", parentsFile, err)
		}
		defer f.Close()
		if err := treeio.WriteParents(genealogy.Parents(trueParents), f); err != nil {
			return fmt.Errorf("write parents file %s: %w", parentsFile, err)
		}
	}

	if output == "" {
		return pop.Write(cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output %s: %w", output, err)
	}
	defer f.Close()
	if err := pop.Write(f); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Population generated")
	printFile(output)
	if parentsFile != "" {
		printFile(parentsFile)
	}
	printNewline()
	printNextStep("Infer", fmt.Sprintf("bvg infer %s -p %d", output, percent))

	return nil
}
