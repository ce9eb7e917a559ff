// Package clock provides timestamp sources for LWW operations. A source
// hands out totally ordered int64 timestamps; Lamport and Wall sources are
// strictly monotonic so that repeated operations from one replica never tie.
package clock
