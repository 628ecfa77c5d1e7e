package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"How to Train Your Dragon", "how-to-train-your-dragon"},
		{"Hello, World!", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"multiple---separators___here", "multiple-separators-here"},
		{"Türing-Maschine", "turing-maschine"},
		{"Crème brûlée 101", "creme-brulee-101"},
		{"ALL CAPS", "all-caps"},
		{"2024 Year in Review", "2024-year-in-review"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Make(c.title); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}
