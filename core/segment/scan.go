package segment

// scanResult holds the positions found by one delimiter scan.
type scanResult struct {
	bodyClose int // index where depth first returned to zero, or -1
	end       int // exclusive end, one past the first closer without an opener, or -1
}

// scan walks s from start tracking one signed depth over {} () [] together
// with a string state. Depth changes are ignored inside strings. A backslash
// escapes the next byte whether or not it is inside a string.
//
// All delimiters are ASCII, so a byte walk never splits on a UTF-8 continuation byte.
func scan(s string, start int) scanResult {
	res := scanResult{bodyClose: -1, end: -1}
	depth := 0
	inString := false
	var delim byte
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if inString {
			if c == delim {
				inString = false
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = true
			delim = c
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 && res.bodyClose < 0 && i > start {
				res.bodyClose = i
			}
			if depth < 0 {
				res.end = i + 1
				return res
			}
		}
	}
	return res
}
