package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []string
		expectErr bool
	}{
		{
			name:     "single trigger",
			input:    "fetch",
			expected: []string{"fetch"},
		},
		{
			name:     "or keyword",
			input:    "fetch or reload",
			expected: []string{"fetch", "reload"},
		},
		{
			name:     "or keyword case insensitive",
			input:    "fetch OR reload",
			expected: []string{"fetch", "reload"},
		},
		{
			name:     "comma separated",
			input:    "fetch, reload",
			expected: []string{"fetch", "reload"},
		},
		{
			name:     "pipe separated",
			input:    "fetch | reload | refresh",
			expected: []string{"fetch", "reload", "refresh"},
		},
		{
			name:     "mixed separators",
			input:    "fetch, reload or refresh",
			expected: []string{"fetch", "reload", "refresh"},
		},
		{
			name:     "identifier with dash and dot",
			input:    "fetch-data or stage.load",
			expected: []string{"fetch-data", "stage.load"},
		},
		{
			name:     "identifier starting with or",
			input:    "order or origin",
			expected: []string{"order", "origin"},
		},
		{
			name:     "empty expression",
			input:    "",
			expected: nil,
		},
		{
			name:     "blank expression",
			input:    "   ",
			expected: nil,
		},
		{
			name:      "trailing separator",
			input:     "fetch or",
			expectErr: true,
		},
		{
			name:      "leading separator",
			input:     ", fetch",
			expectErr: true,
		},
		{
			name:      "missing separator",
			input:     "fetch reload",
			expectErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, err := Parse([]byte(testCase.input))
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, testCase.expected, actual)
		})
	}
}
