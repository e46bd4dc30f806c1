package transcriber

import (
	"strings"

	"github.com/samber/lo"
)

// Result is the text produced for a single chunk.
type Result struct {
	Index int
	Text  string
}

// Join trims every chunk text, joins them with single spaces in index order
// and trims the whole. Words split across a chunk boundary are left as-is.
func Join(results []Result) string {
	texts := lo.Map(results, func(r Result, _ int) string {
		return strings.TrimSpace(r.Text)
	})
	return strings.TrimSpace(strings.Join(texts, " "))
}
