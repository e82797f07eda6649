package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Great book", "Great book"},
		{"tags removed", "<b>Great</b> <a href=\"x\">book</a>", "Great book"},
		{"script dropped", "ok<script>alert(1)</script>", "ok"},
		{"entities kept readable", "Tom & Jerry < Dune", "Tom & Jerry < Dune"},
		{"newlines preserved", "  line one\nline two  ", "line one\nline two"},
		{"only markup", "<p> </p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}
