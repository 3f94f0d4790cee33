// Package hcl provides the concrete HCL implementation of config.Loader.
// It is responsible for file discovery, parsing, decoding the `site` block
// schema and translating it into the format-agnostic config.Site.
//
// A site file looks like:
//
//	site {
//	  title      = "core"
//	  root       = "doc"
//	  include    = ["implementors/**/*.js"]
//	  output     = "public"
//	  vars       = { version = 1.0, channel = upper(env.CHANNEL) }
//	  conditions = ["nightly"]
//
//	  template "page" {
//	    path = "templates/page.html"
//	  }
//	}
//
// Expressions are evaluated with an `env` object holding the process
// environment and a small set of string functions.
package hcl
