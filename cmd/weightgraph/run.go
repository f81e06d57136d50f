package main

import (
	"fmt"
	"io"

	"github.com/born-ml/weightgraph/internal/onnx"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		modelPath string
		batch     int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an exported model on a fixed input sequence",
		Long: `Load an ONNX model and feed it the sequence 0.0, 0.1, 0.2, ... shaped
[batch, input features], then print the input and the output.

Example:
  weightgraph run --model model.onnx --batch 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelPath = stringFlag(cmd, "model", modelPath, a.cfg.Paths.Model)
			if batch < 1 {
				return fmt.Errorf("--batch must be at least 1, got %d", batch)
			}

			model, err := onnx.Load(modelPath, onnx.LoadOptions{StrictMode: true, Logger: a.logger})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded model from %s\n", modelPath)

			features, err := inputFeatures(model)
			if err != nil {
				return err
			}
			input, err := sequenceInput(batch, features)
			if err != nil {
				return err
			}

			inputName, outputName := model.InputNames()[0], model.OutputNames()[0]
			fmt.Fprintf(out, "Input Name: %s\n", inputName)
			fmt.Fprintf(out, "Output Name: %s\n", outputName)
			printTensor(out, "Input", input)

			result, err := model.Forward(input)
			if err != nil {
				return err
			}
			printTensor(out, "Output", result)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "ONNX model path")
	cmd.Flags().Int64Var(&batch, "batch", 1, "batch size")
	return cmd
}

// inputFeatures returns the fixed trailing dimension of the single graph input.
func inputFeatures(model *onnx.Model) (int64, error) {
	if len(model.InputNames()) != 1 || len(model.OutputNames()) != 1 {
		return 0, fmt.Errorf("model must have one input and one output, got %d and %d",
			len(model.InputNames()), len(model.OutputNames()))
	}
	graph := model.Proto().Graph
	for i := range graph.Inputs {
		if graph.Inputs[i].Name != model.InputNames()[0] {
			continue
		}
		dims := graph.Inputs[i].Shape()
		if len(dims) != 2 || dims[1].DimValue <= 0 {
			return 0, fmt.Errorf("input %q must be [batch, features], got %v", graph.Inputs[i].Name, dims)
		}
		return dims[1].DimValue, nil
	}
	return 0, fmt.Errorf("input %q has no type information", model.InputNames()[0])
}

// sequenceInput returns a [batch, features] tensor holding 0.0, 0.1, 0.2, ...
func sequenceInput(batch, features int64) (*tensorbuf.Tensor, error) {
	t, err := tensorbuf.Zeros(batch, features)
	if err != nil {
		return nil, err
	}
	for i := range t.Data {
		t.Data[i] = float32(i) * 0.1
	}
	return t, nil
}

func printTensor(out io.Writer, title string, t *tensorbuf.Tensor) {
	fmt.Fprintf(out, "%s Shape: %v\n", title, t.Dims)
	fmt.Fprintf(out, "%s Data:", title)
	for _, v := range t.Data {
		fmt.Fprintf(out, " %g", v)
	}
	fmt.Fprintln(out)
}
