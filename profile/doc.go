// Package profile provides optional runtime profiling of the quill
// interpreter.
//
// Profiling is compiled in only with the "pprof" build tag, which wires
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag every operation is a no-op and [Modes] is empty.
//
//	go build -tags pprof -o quill .
//	quill --pprof-mode cpu --pprof-dir ./profiles run fib.ql
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. A [Config] carries the mode, output directory,
// and quiet flag:
//
//	p := profile.Make(profile.WithMode("cpu"), profile.WithPath(dir)).Start()
//	defer p.Stop()
//
// The default output directory used by the command is the "pprof"
// subdirectory of the user cache directory.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
