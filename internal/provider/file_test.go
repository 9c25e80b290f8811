package provider

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-narrator/internal/models"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o600))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", f.Timezone)
	assert.Len(t, f.Daily.Data, 1)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("[1,2"))

	var upstream *models.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, models.CodeInvalidBody, upstream.Code)
}
