package codegen

import "github.com/programme-lv/templategen/api"

// Version of the tools, also rendered into every generated file.
const Version = "0.1.0"

// RepoURL points users of generated files back at the project.
const RepoURL = "https://github.com/programme-lv/templategen"

// About returns the identity rendered into the "generated by" header.
func About() api.About {
	return api.About{
		Title:   "oj-template",
		Version: "v" + Version,
		URL:     RepoURL,
	}
}
