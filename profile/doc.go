// Package profile provides optional runtime profiling for tinct.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag. Without the tag, [Profiler.Start] returns a no-op
// and [Modes] is empty.
//
// # Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.New(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// From the command line:
//
//	go build -tags pprof .
//	./tinct --pprof-mode cpu run script.tinct
//	go tool pprof -http=: ./tinct ~/.cache/tinct/pprof/cpu.pprof
//
// The default output directory is the "pprof" subdirectory of the user cache
// directory for tinct.
//
// The pprof build also imports [net/http/pprof], which registers its handlers
// on [net/http.DefaultServeMux] for programs that serve it.
package profile
