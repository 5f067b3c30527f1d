// Package shared provides the process-wide shared state used by every copy
// of the library linked into one program.
//
// The first copy to call [Get] constructs the state and publishes it in the
// process-wide expvar namespace. Every later copy finds it there and adopts
// it instead of building its own, so caches and capability results are
// shared by all of them.
//
// # Quick Start
//
//	s := shared.Get()
//	if s.FastPath.ReadFileFast() {
//		// use s.Module.Binding.FS
//	}
//
// # Capability Probes
//
// Construction runs no probe. Each flag in [State.Support], [State.FastPath]
// and [State.UtilBinding] is computed on first read and memoized for the
// life of the process. A probe that panics resolves to its documented
// fallback instead of propagating.
//
// # Caches
//
// [State.Memoize] and [State.Entry] hold identity-keyed caches that never
// keep their keys alive, and string-keyed caches that do. Which kind each
// cache uses is fixed.
//
// # Diagnostics
//
// The sharedstate command prints every resolved capability:
//
//	$ sharedstate probe -format yaml
//
// Set SHAREDSTATE_LOG_LEVEL=debug to log registry reconciliation.
package shared
