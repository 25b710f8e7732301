package recommend

import "strconv"

// ExtractID returns the first run of decimal digits in text as a movie ID.
// Evaluators are told to answer with the ID alone, so any later number is
// ignored even when it is the one that was meant.
func ExtractID(text string) (int64, bool) {
	start := -1
	for i := 0; i < len(text); i++ {
		isDigit := text[i] >= '0' && text[i] <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			return parseID(text[start:i])
		}
	}
	if start >= 0 {
		return parseID(text[start:])
	}
	return 0, false
}

func parseID(digits string) (int64, bool) {
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
