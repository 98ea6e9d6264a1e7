package utils

import (
	"fmt"
	"math"
)

// FormatLiters renders a volume to one decimal place at most, grouped by thousands
func FormatLiters(v float64) string {
	r := math.Round(v*10) / 10
	whole := int64(r)
	s := groupThousands(whole)
	if tenth := int64(math.Round(math.Abs(r-float64(whole)) * 10)); tenth > 0 {
		s += fmt.Sprintf(".%d", tenth)
	}
	return s
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
