// Package render turns advisory text into the markup the response panel shows.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fencedCode = regexp.MustCompile("(?s)```(.*?)```")
	inlineCode = regexp.MustCompile("`([^`]+)`")
)

// policy only lets the three elements HTML produces through.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("pre", "code", "br")
	return p
}()

// HTML escapes text, then converts fenced code blocks to <pre>, inline code to
// <code> and newlines to <br />. The fence's language tag (```js) stays in the block
// as its first line.
func HTML(text string) string {
	out := html.EscapeString(text)
	out = fencedCode.ReplaceAllString(out, "<pre>$1</pre>")
	out = inlineCode.ReplaceAllString(out, "<code>$1</code>")
	out = strings.ReplaceAll(out, "\n", "<br />")
	return policy.Sanitize(out)
}
