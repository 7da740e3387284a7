package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHeadersClean(t *testing.T) {
	assert.Empty(t, CheckHeaders("image/jpeg", 2048, ""))
}

func TestCheckHeadersNotImage(t *testing.T) {
	warnings := CheckHeaders("text/html", 2048, "")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "text/html")
}

func TestCheckHeadersLargeFile(t *testing.T) {
	warnings := CheckHeaders("image/png", 60*1024*1024, "")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "60.0MB")
}

func TestCheckHeadersSizeThreshold(t *testing.T) {
	// Exactly 50MB is still quiet.
	assert.Empty(t, CheckHeaders("image/png", 50*1024*1024, ""))
	assert.Len(t, CheckHeaders("image/png", 50*1024*1024+1, ""), 1)
}

func TestCheckHeadersMissingLength(t *testing.T) {
	assert.Empty(t, CheckHeaders("image/png", -1, ""))
}

func TestCheckHeadersAttachment(t *testing.T) {
	warnings := CheckHeaders("image/png", 2048, `attachment; filename="x.png"`)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "attachment")

	// "attachment" without a filename is not warned about.
	assert.Empty(t, CheckHeaders("image/png", 2048, "attachment"))
}

func TestCheckHeadersAllRules(t *testing.T) {
	warnings := CheckHeaders("text/plain", 51*1024*1024, `attachment; filename="x.bin"`)
	assert.Len(t, warnings, 3)
}
