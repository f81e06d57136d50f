package main

import (
	"fmt"

	"github.com/born-ml/weightgraph/internal/onnx"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		archPath    string
		weightsPath string
		outPath     string
		permissive  bool
		opset       int64
		producer    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build an ONNX graph from a descriptor and weight container",
		Long: `Read the architecture descriptor and the weight container it describes,
emit MatMul/Add nodes for Linear layers and one node per activation, and
write the ONNX model. Nothing is written if any step fails.

Layers of unknown type fail the export unless --permissive is given, in
which case they are skipped.

Example:
  weightgraph export --arch model_arch.json --weights model_weights.bin --out model.onnx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archPath = stringFlag(cmd, "arch", archPath, a.cfg.Paths.Arch)
			weightsPath = stringFlag(cmd, "weights", weightsPath, a.cfg.Paths.Weights)
			outPath = stringFlag(cmd, "out", outPath, a.cfg.Paths.Model)

			opts := a.cfg.BuildOptions(a.logger)
			if cmd.Flags().Changed("permissive") {
				opts.Permissive = permissive
			}
			if cmd.Flags().Changed("opset") {
				opts.OpsetVersion = opset
			}
			opts.ProducerName = stringFlag(cmd, "producer", producer, opts.ProducerName)

			model, err := onnx.Export(archPath, weightsPath, outPath, opts)
			if err != nil {
				return err
			}

			info := onnx.Describe(model)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d nodes and %d initializers to %s\n", info.NodeCount, info.WeightCount, outPath)
			fmt.Fprintf(out, "Input:  %v\n", info.InputNames)
			fmt.Fprintf(out, "Output: %v\n", info.OutputNames)
			return nil
		},
	}

	cmd.Flags().StringVar(&archPath, "arch", "", "architecture descriptor path")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "weight container path")
	cmd.Flags().StringVar(&outPath, "out", "", "ONNX output path")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "skip layers of unknown type")
	cmd.Flags().Int64Var(&opset, "opset", onnx.DefaultOpsetVersion, "ONNX opset version")
	cmd.Flags().StringVar(&producer, "producer", onnx.DefaultProducerName, "producer name recorded in the model")
	return cmd
}
