// internal/governance/trace/dtid.go

// Package trace mints decision trace ids and freezes recommendation
// instances into immutable, replayable snapshots.
package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// Trace id format: dsc_<unix_seconds>_<8 hex chars>.
const tracePrefix = "dsc"

var (
	processStart = time.Now()
	traceCounter uint64
)

// GenerateTraceID produces a globally unique decision trace id. The hash
// input mixes the monotonic process clock and an in-process counter, so ids
// minted within the same wall-clock second never collide.
func GenerateTraceID() string {
	now := time.Now()
	seq := atomic.AddUint64(&traceCounter, 1)
	raw := fmt.Sprintf("%d-%d-%d", now.Unix(), time.Since(processStart).Nanoseconds(), seq)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s_%d_%s", tracePrefix, now.Unix(), hex.EncodeToString(sum[:])[:8])
}
