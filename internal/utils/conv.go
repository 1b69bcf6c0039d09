package utils

import (
	"strconv"
)

// StringToUint converts a path or query id to uint, returns 0 if error
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(i)
}
