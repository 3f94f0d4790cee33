package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Sites  []*siteBlock `hcl:"site,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type siteBlock struct {
	Title      *string          `hcl:"title,optional"`
	Root       *string          `hcl:"root,optional"`
	Include    []string         `hcl:"include,optional"`
	Output     *string          `hcl:"output,optional"`
	Vars       hcl.Expression   `hcl:"vars,optional"`
	Conditions []string         `hcl:"conditions,optional"`
	Templates  []*templateBlock `hcl:"template,block"`
}

type templateBlock struct {
	Name   string  `hcl:"name,label"`
	Path   *string `hcl:"path,optional"`
	Source *string `hcl:"source,optional"`
}
