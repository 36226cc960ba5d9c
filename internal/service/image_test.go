package service_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

func TestDecodeBase64Image(t *testing.T) {
	payload := []byte("fake image bytes")
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	raw, ext, err := service.DecodeBase64Image(uri)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
	assert.Equal(t, "jpeg", ext)
}

func TestDecodeBase64ImageDefaultsToPNG(t *testing.T) {
	uri := "data:image;base64," + base64.StdEncoding.EncodeToString([]byte("x"))

	_, ext, err := service.DecodeBase64Image(uri)
	require.NoError(t, err)
	assert.Equal(t, "png", ext)
}

func TestDecodeBase64ImageRejectsGarbage(t *testing.T) {
	cases := []string{
		"https://example.com/image.png",
		"data:image/png",
		"data:image/png;base64,%%%not-base64%%%",
	}
	for _, input := range cases {
		_, _, err := service.DecodeBase64Image(input)
		var verr *service.ValidationError
		assert.True(t, errors.As(err, &verr), "input %q", input)
	}
}
