package hcl

import "github.com/hashicorp/hcl/v2"

// fileSchema is the top-level structure of a grid file.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "pipeline", LabelNames: []string{"name"}},
		{Type: "inputs"},
	},
}

// nodeSchema is the structure of any body that contains specification nodes:
// a pipeline, a sequence, or an option. Blocks are translated in source
// order, which is what execution order is defined by.
var nodeSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "stage", LabelNames: []string{"function"}},
		{Type: "sequence"},
		{Type: "option"},
	},
}

// stageSchema is the structure of a stage block body.
var stageSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "in"},
		{Name: "out"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "kwargs"},
	},
}
