// Package host adapts phaseshaper chains to a plugin-style surface: named
// scalar controls, one chain per audio channel and a parameter queue that
// is drained between blocks.
//
// Controls are "frequency" (alias "freq"), "q", "filtercount" and "mix".
// Every accepted value is applied identically to all channels.
//
// An Instance has one processing goroutine, the one calling ProcessBlock,
// Set, Configure and Close. Other goroutines may call Post, which never
// blocks; posted changes take effect at the start of the next block.
package host
