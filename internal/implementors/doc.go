// Package implementors hands per-page implementor tables to a page-wide
// aggregator.
//
// A documentation page for a trait (or interface) lists, per crate, the
// types that implement it. Each page's data arrives as a Table. The code
// that produces a Table runs independently of the code that consumes it,
// so a Loader mediates between the two with an explicit two-state
// lifecycle:
//
//   - NotReady: no Aggregator is registered. An offered Table is parked in
//     the pending slot. The slot holds one Table; a later offer replaces an
//     earlier one.
//   - Ready: an Aggregator is registered. An offered Table is passed to it
//     synchronously, once per offer.
//
// Registering an Aggregator moves the Loader to Ready and replays the parked
// Table, if any, clearing the slot. Default is the process-wide Loader.
package implementors
