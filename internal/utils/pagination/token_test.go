package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(date, "3f0c9a54-7d0e-4b7e-9d55-1a2b3c4d5e6f")
	assert.NotEmpty(t, token)

	decodedDate, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(decodedDate))
	assert.Equal(t, "3f0c9a54-7d0e-4b7e-9d55-1a2b3c4d5e6f", decodedID)
}

func TestEncodeToken_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	date := time.Date(2024, 1, 1, 1, 0, 0, 0, loc)

	decodedDate, _, err := DecodeToken(EncodeToken(date, "id"))
	require.NoError(t, err)
	assert.True(t, date.Equal(decodedDate))
	assert.Equal(t, time.UTC, decodedDate.Location())
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.ErrorContains(t, err, "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeToken(badDate)
	assert.ErrorContains(t, err, "date parse")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0, 20, 100))
	assert.Equal(t, 20, ClampLimit(-3, 20, 100))
	assert.Equal(t, 50, ClampLimit(50, 20, 100))
	assert.Equal(t, 100, ClampLimit(500, 20, 100))
}
