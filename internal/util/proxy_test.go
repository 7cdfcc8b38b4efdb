package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, httpProxy, httpsProxy, noProxy, target string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)

	u, err := NewProxyFunc(httpProxy, httpsProxy, noProxy)(req)
	require.NoError(t, err)
	if u == nil {
		return ""
	}
	return u.String()
}

func TestNewProxyFunc(t *testing.T) {
	tests := []struct {
		name       string
		httpProxy  string
		httpsProxy string
		noProxy    string
		target     string
		want       string
	}{
		{"http via http proxy", "http://proxy:3128", "", "", "http://api.example.com/v1", "http://proxy:3128"},
		{"https falls back to http proxy", "http://proxy:3128", "", "", "https://api.example.com/v1", "http://proxy:3128"},
		{"https proxy preferred", "http://proxy:3128", "http://secure:3129", "", "https://api.example.com/v1", "http://secure:3129"},
		{"no_proxy host bypasses", "http://proxy:3128", "", "api.example.com", "https://api.example.com/v1", ""},
		{"no_proxy domain suffix", "http://proxy:3128", "", ".internal", "http://ollama.internal:11434", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, tt.httpProxy, tt.httpsProxy, tt.noProxy, tt.target))
		})
	}
}

func TestNewProxyFunc_Environment(t *testing.T) {
	fn := NewProxyFunc("", "", "")
	assert.NotNil(t, fn)
}

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(5*time.Second, "http://proxy:3128", "", "")

	assert.Equal(t, 5*time.Second, c.Timeout)
	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
	assert.NotSame(t, http.DefaultTransport, transport)
}
