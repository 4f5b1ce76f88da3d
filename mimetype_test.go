package attic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgrazal/attic"
)

func TestTypeByExtension(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{
			name: "plain text",
			ext:  ".txt",
			want: "text/plain; charset=utf-8",
		},
		{
			name: "html",
			ext:  ".html",
			want: "text/html; charset=utf-8",
		},
		{
			name: "javascript",
			ext:  ".js",
			want: "application/javascript",
		},
		{
			name: "css",
			ext:  ".css",
			want: "text/css; charset=utf-8",
		},
		{
			name: "json",
			ext:  ".json",
			want: "application/json",
		},
		{
			name: "uppercase extension",
			ext:  ".HTML",
			want: "text/html; charset=utf-8",
		},
		{
			name: "mixed case extension",
			ext:  ".JpG",
			want: "image/jpeg",
		},
		{
			name: "unknown extension",
			ext:  ".weird",
			want: "application/octet-stream",
		},
		{
			name: "empty extension",
			ext:  "",
			want: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attic.TypeByExtension(tt.ext))
		})
	}
}
