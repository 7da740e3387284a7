package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURLValid(t *testing.T) {
	valid := []string{
		"http://example.com/img.png",
		"https://example.com",
		"https://example.com/path/to/img.jpg?size=large",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}
}

func TestValidateURLInvalid(t *testing.T) {
	invalid := []string{
		"",
		"ftp://example.com/img.png",
		"example.com/img.png",
		"//example.com/img.png",
		"http://",
		"https:///img.png",
	}
	for _, u := range invalid {
		assert.Error(t, ValidateURL(u), u)
	}
}
