package repl

import "testing"

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_bracket", "[fo", 3, "fo", 1, 3},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"after_let", "let total = co", 14, "co", 12, 14},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "log_level", 9, "log_level", 0, 9},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		want   bool
	}{
		{"plain", "let a = b", 8, false},
		{"open_string", `print("he`, 8, true},
		{"closed_string", `print("hi", x`, 12, false},
		{"escaped_quote", `"a\"b`, 4, true},
		{"comment", "a; # note", 7, true},
		{"hash_in_string", `"#" + x`, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inString(tt.input, tt.offset); got != tt.want {
				t.Errorf("inString(%q, %d) = %v, want %v",
					tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a  b\n c", 10, "a b c"},
		{"abcdefghijkl", 8, "abcde..."},
	}

	for _, tt := range tests {
		if got := preview(tt.in, tt.width); got != tt.want {
			t.Errorf("preview(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
