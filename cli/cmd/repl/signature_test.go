package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "greeting", 8, "", 0, false},
		{"first_arg", "add(", 4, "add", 0, true},
		{"first_arg_value", "add(1", 5, "add", 0, true},
		{"second_arg", "add(1,", 6, "add", 1, true},
		{"second_arg_value", "add(1, 2", 8, "add", 1, true},
		{"closed_call", "add(1, 2)", 9, "", 0, false},
		{"nested_inner", "add(mul(2, ", 11, "mul", 1, true},
		{"nested_outer", "add(mul(2, 3), ", 15, "add", 1, true},
		{"comma_in_list", "len([1, 2, ", 11, "", 0, false},
		{"after_list", "f([1, 2], ", 10, "f", 1, true},
		{"comma_in_string", `print("a, b", `, 14, "print", 1, true},
		{"paren_in_string", `print("(", `, 11, "print", 1, true},
		{"grouping_paren", "(1 + ", 5, "", 0, false},
		{"cursor_mid_input", "add(1, 2)", 5, "add", 0, true},
		{"let_statement", "let x = pathprefix(p, ", 22, "pathprefix", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {name:%s argIndex:%d inCall:%v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		params    []string
		argIdx    int
		contains  []string
	}{
		{"empty", "", nil, 0, nil},
		{"no_params", "cwd()", nil, 0, []string{"cwd", "()"}},
		{"two_params", "add(a, b)", []string{"a", "b"}, 1, []string{"add", "a", "b"}},
		{"variadic", "print(format, ...)", []string{"format", "..."}, 3, []string{"print", "format", "..."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.argIdx)

			if tt.signature == "" && got != "" {
				t.Fatalf("renderSignatureHint(\"\") = %q, want empty", got)
			}

			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("renderSignatureHint(%q) = %q, missing %q",
						tt.signature, got, s)
				}
			}
		})
	}
}
