package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber generates the human-readable reference printed on invoices
// and quoted by customers on the phone, e.g. "PV-20260828-9F2C41A7".
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PV-%s-%s", now.Format("20060102"), suffix)
}
