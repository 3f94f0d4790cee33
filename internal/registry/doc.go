// Package registry maps generator names used in templates (the "label" of a
// [[+label args]] tag) to the compiled Go generators that produce their
// content.
//
// Generators are contributed by modules. Each module implements Module and
// registers its generators once at startup; registering the same name twice
// is a programmer error and panics. The populated Registry is then installed
// into every template the application renders.
package registry
