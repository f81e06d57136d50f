// Package arch defines the architecture descriptor: the ordered layer list
// and canonical parameter order shared by the weight writer and the graph
// builder.
//
// Descriptor files are JSON (or YAML with the same keys):
//
//	{
//	    "input_shape": [1, 10],
//	    "output_shape": [1, 5],
//	    "param_order": ["fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"],
//	    "layers": [
//	        {"name": "fc1", "type": "Linear", "params": ["fc1.weight", "fc1.bias"]},
//	        {"name": "relu1", "type": "ReLU", "params": []},
//	        {"name": "fc2", "type": "Linear", "params": ["fc2.weight", "fc2.bias"]}
//	    ]
//	}
//
// Axis 0 of each shape is a batch placeholder; only the feature count is
// carried into the exported graph.
package arch
