// Number-to-text conversion for Russian cardinal numbers.
package numtext

import "strings"

func convert(n int) string {
	if n < 0 || n > MaxValue {
		return ""
	}
	if n == 0 {
		return wordZero
	}

	parts := make([]string, 0, 3)
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	switch rest := n % 100; {
	case rest >= 20:
		parts = append(parts, tens[rest/10])
		if rest%10 > 0 {
			parts = append(parts, ones[rest%10])
		}
	case rest >= 10:
		parts = append(parts, teens[rest-10])
	case rest > 0:
		parts = append(parts, ones[rest])
	}
	return strings.Join(parts, " ")
}
