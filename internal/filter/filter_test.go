package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{"host match", `host == "example.com"`, false},
		{"path prefix", `path startsWith "/blog"`, false},
		{"regex", `url matches "^https://"`, false},
		{"empty", ``, true},
		{"syntax error", `host ==`, true},
		{"unknown variable", `hostname == "x"`, true},
		{"non boolean", `host + "x"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.expression)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.String())
		})
	}
}

func TestFilter_Allow(t *testing.T) {
	f, err := New(`scheme == "https" && host == "example.com" && !(path startsWith "/admin")`)
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/blog/post-1", true},
		{"https://example.com:8443/", true},
		{"http://example.com/blog/post-1", false},
		{"https://other.com/blog/post-1", false},
		{"https://example.com/admin/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			allowed, err := f.Allow(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestFilter_AllowQuery(t *testing.T) {
	f, err := New(`query == "" || !(query contains "preview=")`)
	require.NoError(t, err)

	allowed, err := f.Allow("https://example.com/a?preview=1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = f.Allow("https://example.com/a?page=2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFilter_AllowUnparseable(t *testing.T) {
	f, err := New(`host == "example.com"`)
	require.NoError(t, err)

	allowed, err := f.Allow("http://[invalid")
	require.NoError(t, err)
	assert.True(t, allowed)
}
