// Text-to-number parsing for Russian cardinal text.
package numtext

func parseWords(words []string) (int, int) {
	if len(words) == 0 {
		return 0, 0
	}
	if words[0] == wordZero {
		return 0, 1
	}

	var (
		total int
		used  int
		last  rank // rank of the previous part, 0 before the first
	)
	for _, w := range words {
		nw, ok := wordValues[w]
		if !ok {
			break
		}
		if last != 0 && (nw.rank >= last || last == rankTeens) {
			break
		}
		total += nw.value
		last = nw.rank
		used++
	}
	return total, used
}
