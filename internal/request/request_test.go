package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		xff      string
		xri      string
		remote   string
		expected string
	}{
		{
			name:     "falls back to remote addr",
			remote:   "10.0.0.1:1234",
			expected: "10.0.0.1:1234",
		},
		{
			name:     "prefers first X-Forwarded-For entry",
			xff:      "203.0.113.7, 10.0.0.2",
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.7",
		},
		{
			name:     "uses X-Real-IP when no X-Forwarded-For",
			xri:      " 203.0.113.9 ",
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := ClientIP(req); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
