// Package config defines the format-agnostic site configuration model and
// the Loader interface that format-specific loaders (such as the HCL loader)
// implement.
//
// A Site describes where rustdoc implementor files live, which of them to
// index, where rendered pages go, and which templates, variables and
// conditions to render them with.
package config
