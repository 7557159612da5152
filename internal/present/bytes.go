package present

import (
	"math"
	"strconv"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count for humans with up to two decimals,
// e.g. 1536 is "1.5 KB". Zero is "0 MB".
func FormatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 MB"
	}

	v := math.Max(float64(bytes), 0)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}

	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[unit]
}
