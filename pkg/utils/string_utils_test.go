package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"clients.csv", "clients.csv"},
		{"my clients (2024).csv", "my_clients_2024_.csv"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\data.csv`, "data.csv"},
		{"...", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeFileName(tc.in))
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAndTrim(" a , ,b,"))
	assert.Nil(t, SplitAndTrim(""))
}
