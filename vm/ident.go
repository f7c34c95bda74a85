package vm

// isValidIdent reports whether name is a legal field identifier: a
// letter or underscore followed by any number of letters, digits, or
// underscores. set_field needs a verdict on every field-name write; an
// embedder is free to swap in a stricter policy by validating before it
// ever calls SetField.
func isValidIdent(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 {
			if !isLetter {
				return false
			}
			continue
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
