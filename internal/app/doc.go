// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build, render, watch and serve
// lifecycles, decoupled from any specific entrypoint like a CLI.
//
// A build discovers rustdoc implementor scripts under the site root, gives
// every page its own implementors.Loader, offers the page's table before the
// index aggregator is registered (so it is parked and then replayed) and
// finally publishes the index as HTML pages or as a JSON or YAML export.
package app
