package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"  padded  ", "padded"},
		{"نص <i>عربي</i>", "نص عربي"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextCollapsesWhitespace(t *testing.T) {
	if got := Text("a   <b>b</b>   c"); got != "a b c" {
		t.Fatalf("Text = %q, want %q", got, "a b c")
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("TextPtr(nil) must stay nil")
	}
	in := "<p>hello</p>"
	got := TextPtr(&in)
	if got == nil || *got != "hello" {
		t.Fatalf("TextPtr = %v", got)
	}
}
