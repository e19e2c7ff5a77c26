package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text with newlines",
			in:   "line one\nline two",
			want: "line one<br/>line two",
		},
		{
			name: "inline code",
			in:   "use `memo` here",
			want: "use <code>memo</code> here",
		},
		{
			name: "fenced block keeps language tag",
			in:   "before\n```js\nlet a = 1;\n```",
			want: "before<br/><pre>js<br/>let a = 1;<br/></pre>",
		},
		{
			name: "markup in the text is escaped",
			in:   "<script>alert(1)</script> if (a < b)",
			want: "&lt;script&gt;alert(1)&lt;/script&gt; if (a &lt; b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the sanitizer re-serialises void elements, normalise the spelling
			got := strings.ReplaceAll(HTML(tt.in), "<br />", "<br/>")
			assert.Equal(t, tt.want, got)
		})
	}
}
