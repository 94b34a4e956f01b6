package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ann", "ann"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.in), "input %q", tt.in)
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ann%", ContainsPattern("ann"))
	assert.Equal(t, `% ann %`, ContainsPattern(" ann "))
	assert.Equal(t, `%\%%`, ContainsPattern("%"))
}
