package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDecisionText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short text passes through",
			text: "ORDER\n\nService connection for tinnitus is granted.",
			want: "ORDER\n\nService connection for tinnitus is granted.",
		},
		{
			name: "ascii text cut at the cap",
			text: strings.Repeat("a", maxDecisionChars+100),
			want: strings.Repeat("a", maxDecisionChars),
		},
		{
			name: "multibyte rune at the cap is dropped whole",
			text: strings.Repeat("a", maxDecisionChars-1) + "§ 38 C.F.R.",
			want: strings.Repeat("a", maxDecisionChars-1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateDecisionText(tt.text)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), maxDecisionChars)
		})
	}
}
