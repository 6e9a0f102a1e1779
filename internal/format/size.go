package format

import "fmt"

// sizeUnits mirrors the binary-prefix units Event Viewer uses when
// rendering a "Size" value kind (spec §4.2): bytes below 1024, otherwise
// the largest unit that keeps the mantissa in [1, 1024).
var sizeUnits = [...]string{"bytes", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders a byte count the way Event Viewer renders a Size
// value: "<n> bytes" below 1024, otherwise "<d.dd> <unit>" with two
// fraction digits. No third-party humanize-style library appears anywhere
// in the retrieval pack, so this stays on fmt.Sprintf rather than
// inventing a dependency that isn't grounded in the corpus.
func FormatSize(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d bytes", n)
	}
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}
