package service

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTrackingID returns TRK-<base36 unix millis>-<5 random base36 chars>.
// Readable, not collision-proof.
func NewTrackingID(now time.Time) string {
	var suffix [5]byte
	for i := range suffix {
		suffix[i] = base36Digits[rand.Intn(len(base36Digits))]
	}

	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "TRK-" + stamp + "-" + string(suffix[:])
}
