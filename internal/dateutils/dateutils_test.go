package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input          string
		expected       string
		expectedLayout string
	}{
		{input: "2024-01-15", expected: "2024-01-15", expectedLayout: DateLayoutISO},
		{input: " 2024-01-15 ", expected: "2024-01-15", expectedLayout: DateLayoutISO},
		{input: "2024-01-15 10:30:00", expected: "2024-01-15", expectedLayout: DateLayoutFull},
		{input: "01/15/2024", expected: "2024-01-15", expectedLayout: DateLayoutUS},
		{input: "1/5/2024", expected: "2024-01-05", expectedLayout: "1/2/2006"},
		{input: "15.01.2024", expected: "2024-01-15", expectedLayout: DateLayoutEuropean},
		{input: "Jan 15, 2024", expected: "2024-01-15", expectedLayout: "Jan 2, 2006"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, layout, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToISODate(got))
			assert.Equal(t, tt.expectedLayout, layout)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "2024-13-45"} {
		_, _, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestCompareDateStrings(t *testing.T) {
	assert.Equal(t, -1, CompareDateStrings("2024-01-02", "2024-01-10"))
	assert.Equal(t, 1, CompareDateStrings("02/01/2024", "2024-01-10"))
	assert.Equal(t, 0, CompareDateStrings("2024-01-10", "01/10/2024"))
	// unparsable values fall back to string order
	assert.Equal(t, -1, CompareDateStrings("aaa", "bbb"))
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-03-09", ToISODate(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)))
}
