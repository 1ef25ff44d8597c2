package validators

import "strings"

// IsPhoneValid accepts numbers with at least seven digits, allowing the
// usual separators and a leading plus.
func IsPhoneValid(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}

// IsDateValid does a cheap shape check (YYYY-MM-DD) before the handler
// hands the string to time.Parse.
func IsDateValid(date string) bool {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return false
	}
	for i, r := range date {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsTimeValid checks the HH:MM shape used across the API.
func IsTimeValid(hm string) bool {
	if len(hm) != 5 || hm[2] != ':' {
		return false
	}
	for _, part := range strings.SplitN(hm, ":", 2) {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
