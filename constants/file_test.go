package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".pdf", PDF},
		{"PDF", PDF},
		{".Txt", TXT},
		{".docx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, MapExtToFormat(tt.ext))
		})
	}
}

func TestIsAllowedExt(t *testing.T) {
	assert.True(t, IsAllowedExt(".pdf"))
	assert.True(t, IsAllowedExt("txt"))
	assert.False(t, IsAllowedExt(".png"))
}
