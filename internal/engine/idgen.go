package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// clientOrderIDLen is the fixed width of derived client order ids.
const clientOrderIDLen = 22

// nextID returns the current order id and advances the counter. Only the
// engine goroutine calls it, which serializes generation and makes the
// id sequence of a replayed run identical to the original.
func (e *Engine) nextID() uint64 {
	id := e.nextOrderID
	e.nextOrderID++
	return id
}

// ClientOrderID derives the client-facing identifier for an order id:
// the SHA-256 of the decimal id, hex encoded, truncated to a fixed
// width. Pure function of the id, no randomness, so the same id always
// maps to the same client id.
func ClientOrderID(id uint64) string {
	sum := sha256.Sum256([]byte(strconv.FormatUint(id, 10)))
	return hex.EncodeToString(sum[:])[:clientOrderIDLen]
}
