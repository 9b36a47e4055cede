// Package trace records compilation phases of the pyl toolchain.
//
// Enable tracing via command-line flags:
//
//	pyl diag --trace=- --trace-level=phase main.pyl
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only error points
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// # Context Propagation
//
// Tracers travel through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", 0)
//	defer span.End("")
//
// Every tracer session carries a random id so that several NDJSON streams
// written into one file can be told apart.
package trace
