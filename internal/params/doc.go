// Package params supplies raw bench parameters by name.
//
// A Source answers Int(name). The CLI layers several sources with Chain:
// values given with --set win over a parameter file, and a parameter file
// wins over interactive prompting. A source that does not know a value returns
// a *MissingError so the chain can move on; any other error stops the chain.
//
// Parameter files come in two flavours:
//   - YAML (.yaml, .yml): a flat mapping, unknown keys rejected.
//   - CUE (.cue): unified with a closed schema that bounds every known
//     parameter, so errors point at file:line:col.
//
// Both may carry an optional "scenario" key naming the bench.
package params
