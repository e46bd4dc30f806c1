package transcriber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{"empty", nil, ""},
		{"plain", []Result{{0, "hello"}, {1, "world"}}, "hello world"},
		{"padded", []Result{{0, " hello "}, {1, "world "}}, "hello world"},
		{"blank chunk in the middle", []Result{{0, "one"}, {1, "  "}, {2, "three"}}, "one  three"},
		{"all blank", []Result{{0, " "}, {1, "\n"}}, ""},
		{"no stitching", []Result{{0, "trans"}, {1, "cription"}}, "trans cription"},
		{"keeps order", []Result{{0, "c"}, {1, "a"}, {2, "b"}}, "c a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.results))
		})
	}
}
