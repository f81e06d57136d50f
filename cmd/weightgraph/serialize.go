package main

import (
	"fmt"

	"github.com/born-ml/weightgraph/internal/nn"
	"github.com/spf13/cobra"
)

func newSerializeCmd(a *app) *cobra.Command {
	var (
		archPath    string
		weightsPath string
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Write the reference network's descriptor and weights",
		Long: `Build the reference network fc1: Linear(10, 32) -> relu1: ReLU ->
fc2: Linear(32, 5) with seeded random weights and write its architecture
descriptor and weight container.

Example:
  weightgraph serialize --arch model_arch.json --weights model_weights.bin --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archPath = stringFlag(cmd, "arch", archPath, a.cfg.Paths.Arch)
			weightsPath = stringFlag(cmd, "weights", weightsPath, a.cfg.Paths.Weights)
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}

			net := nn.NewSimpleNet(seed)
			a.logger.Debug("built network", "seed", seed, "params", len(net.NamedParameters()))

			if err := net.Save(archPath, weightsPath); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved architecture to %s\n", archPath)
			fmt.Fprintf(out, "Saved weights to %s\n", weightsPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&archPath, "arch", "", "descriptor output path (.json, .yaml)")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "weight container output path")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for weight initialization")
	return cmd
}
