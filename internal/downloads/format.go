package downloads

import (
	"fmt"
	"strconv"
)

// FormatCount renders a download count for display: counts >= 1,000,000 as
// "x.yM", counts >= 1,000 as "x.yK" (one decimal place), and everything
// else as the literal integer. A display helper only; not part of the
// count's identity.
func FormatCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return strconv.FormatInt(count, 10)
	}
}
