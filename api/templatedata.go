package api

import "github.com/programme-lv/templategen/internal/format"

// About identifies the generator; every rendered file carries it in a
// "generated by" header line.
type About struct {
	Title   string
	Version string
	URL     string
}

// Sample is one example case from a problem statement.
type Sample struct {
	Input  string
	Output string
}

// TemplateData is the contract between analysis and the scaffold templates:
// everything a template can see when rendering files for one problem.
type TemplateData struct {
	// URL is the problem page the data was built from.
	URL string
	// Judge is the adapter name, e.g. "atcoder".
	Judge string
	// ProblemID is a directory-safe problem slug, e.g. "abc158_b".
	ProblemID string
	// Input is the analyzed input format tree, nil when analysis failed.
	Input format.Node
	// Vars are the per-variable declarations derived from Input.
	Vars []format.VarDecl
	// Samples in statement order, empty when the judge has none.
	Samples []Sample

	About About
}
