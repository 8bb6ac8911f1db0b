package vega

import (
	"encoding/hex"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
)

// traceSeq feeds newTraceID; it only needs to be unique per process, not
// globally unpredictable, so a plain counter is enough entropy.
var traceSeq atomic.Uint64

// newTraceID derives a short, stable correlation id for a coroutine's
// promise from a monotonically increasing sequence number, the same
// "hash a counter instead of carrying a growing string" trick worth using
// once a runtime has enough concurrent in-flight promises that eyeballing
// raw sequence numbers in a trace stops being useful. blake2b is already
// one of this module's wired dependencies; this is its one call site.
func newTraceID() string {
	seq := traceSeq.Add(1)
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(seq >> (8 * i))
	}
	sum := blake2b.Sum256(buf[:])
	return hex.EncodeToString(sum[:6])
}
