package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Id prefixes and zero-padding widths used by the stores
const (
	ItemIDPrefix       = "ITM"
	ItemIDWidth        = 3
	ExperimentIDPrefix = "EXP"
	ExperimentIDWidth  = 3
	CategoryIDPrefix   = "CAT"
	CategoryIDWidth    = 4
)

// NextID allocates the id following the highest numeric suffix among ids.
// Ids that do not carry the prefix or a numeric suffix are ignored, so
// ITM001, ITM003 yields ITM004 and an empty set yields ITM001.
func NextID(prefix string, width int, ids []string) string {
	maxNum := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		num, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, maxNum+1)
}
