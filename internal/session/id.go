package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID generates a session ID with a timestamp prefix and random
// suffix, e.g. "20240115-143052-a1b2c3". Sorts chronologically and
// stays readable in listings.
func NewID() string {
	now := time.Now()
	random := make([]byte, 3) // 6 hex chars
	rand.Read(random)
	return fmt.Sprintf("%s-%s",
		now.Format("20060102-150405"),
		hex.EncodeToString(random),
	)
}

// ShortID returns a compact form of the session ID for display.
// Example: "20240115-143052-a1b2c3" -> "240115-1430"
func ShortID(id string) string {
	if len(id) < 15 {
		return id
	}
	// Skip the century, keep YYMMDD-HHMM
	return id[2:8] + "-" + id[9:13]
}
