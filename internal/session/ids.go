package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// newSessionID builds "<prefix>_<unixMillis>_<20 hex chars>". The 10 random
// bytes make collisions practically impossible.
func newSessionID(prefix string, now time.Time) string {
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), hex.EncodeToString(buf))
}

// newRefCode builds the short human-shareable reference code, e.g. VHC-1A2B3C.
// It is a display convenience, not a lookup key, so collisions are acceptable.
func newRefCode() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return "VHC-" + strings.ToUpper(hex.EncodeToString(buf))
}
