package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/onnx"
	"github.com/born-ml/weightgraph/internal/weights"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		archPath    string
		weightsPath string
		modelPath   string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the records of a weight container or the summary of an ONNX model",
		Long: `With --model, print the ONNX model's producer, opset, signature and
operators. Otherwise list every record of the weight container with the
name the descriptor's param_order gives it.

Example:
  weightgraph inspect --arch model_arch.json --weights model_weights.bin
  weightgraph inspect --model model.onnx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("model") {
				return inspectModel(out, modelPath)
			}

			archPath = stringFlag(cmd, "arch", archPath, a.cfg.Paths.Arch)
			weightsPath = stringFlag(cmd, "weights", weightsPath, a.cfg.Paths.Weights)
			return inspectWeights(out, archPath, weightsPath)
		},
	}

	cmd.Flags().StringVar(&archPath, "arch", "", "architecture descriptor path")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "weight container path")
	cmd.Flags().StringVar(&modelPath, "model", "", "ONNX model path")
	cmd.MarkFlagsMutuallyExclusive("model", "weights")
	return cmd
}

func inspectWeights(out io.Writer, archPath, weightsPath string) error {
	d, err := arch.Load(archPath)
	if err != nil {
		return err
	}
	records, err := weights.ScanFile(weightsPath, d.ParamOrder)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Input shape:  %v\n", d.InputShape)
	fmt.Fprintf(out, "Output shape: %v\n", d.OutputShape)
	fmt.Fprintf(out, "Layers:       %d\n\n", len(d.Layers))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSHAPE\tOFFSET\tBYTES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\n", r.Name, r.Dims, r.Offset, r.Size)
	}
	return tw.Flush()
}

func inspectModel(out io.Writer, path string) error {
	if path == "" {
		return errors.New("--model requires a path")
	}
	info, err := onnx.GetModelInfo(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Producer:     %s %s\n", info.ProducerName, info.ProducerVersion)
	fmt.Fprintf(out, "IR version:   %d\n", info.IRVersion)
	fmt.Fprintf(out, "Opset:        %d\n", info.OpsetVersion)
	fmt.Fprintf(out, "Graph:        %s\n", info.GraphName)
	fmt.Fprintf(out, "Inputs:       %s\n", strings.Join(info.InputNames, ", "))
	fmt.Fprintf(out, "Outputs:      %s\n", strings.Join(info.OutputNames, ", "))
	fmt.Fprintf(out, "Nodes:        %d\n", info.NodeCount)
	fmt.Fprintf(out, "Initializers: %d (%d values)\n", info.WeightCount, info.ParameterCount)
	fmt.Fprintf(out, "Operators:    %s\n", strings.Join(info.OpTypes, ", "))
	return nil
}
