package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	d, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.ContentType)
	assert.Equal(t, []byte("hello"), d.Data)
	assert.Equal(t, "png", d.Extension())
}

func TestParseDataURIRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:;base64,aGVsbG8=",
		"data:image/png;base64,%%%",
		"data:image/png;base64,",
	}
	for _, c := range cases {
		_, err := ParseDataURI(c)
		assert.ErrorIs(t, err, ErrInvalidDataURI, c)
	}
}

func TestUnknownExtension(t *testing.T) {
	assert.Equal(t, "bin", DataURI{ContentType: "application/x-foo"}.Extension())
}
