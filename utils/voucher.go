package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IssueVoucher generates a voucher code for a claimed offer. The code embeds
// the offer code for support lookups; the uuid fragment keeps it unguessable.
func IssueVoucher(offerCode string) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	return fmt.Sprintf("VCH-%s-%s", offerCode, fragment)
}
