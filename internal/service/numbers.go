package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Human-facing reference numbers: a date for ordering plus a short
// random suffix. Uniqueness is ultimately enforced by the database.
func newReference(prefix string, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

func newBookingNumber(now time.Time) string  { return newReference("BK", now) }
func newContractNumber(now time.Time) string { return newReference("CT", now) }
func newPaymentReference(now time.Time) string {
	return newReference("PAY", now)
}
