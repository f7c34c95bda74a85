package vm

import "testing"

func TestIsValidIdent(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"_private", true},
		{"camelCase42", true},
		{"", false},
		{"1leading", false},
		{"has space", false},
		{"has-dash", false},
	}
	for _, c := range cases {
		if got := isValidIdent(c.name); got != c.want {
			t.Errorf("isValidIdent(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
