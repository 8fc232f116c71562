package utils

import (
	"fmt"
	"math"
)

// Paginate returns the page count and the "<from>-<to> of <total>" label for a list response.
func Paginate(page, limit int, total int64) (int, string) {
	if total == 0 || limit <= 0 {
		return 0, "0 of 0"
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	from := (page-1)*limit + 1
	to := min(page*limit, int(total))
	if from > int(total) {
		return totalPages, fmt.Sprintf("0 of %d", total)
	}
	return totalPages, fmt.Sprintf("%d-%d of %d", from, to, total)
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
