package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWebsiteURL_Valid(t *testing.T) {
	valid := []string{
		"https://acme.com",
		"http://acme.com",
		"https://www.acme.co.uk/about",
		"  https://acme.com  ",
	}
	for _, raw := range valid {
		assert.NoError(t, ValidateWebsiteURL(raw), "url: %s", raw)
	}
}

func TestValidateWebsiteURL_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"acme.com",
		"ftp://acme.com",
		"https://localhost",
		"https://localhost:8080",
		"https://intranet",
	}
	for _, raw := range invalid {
		assert.Error(t, ValidateWebsiteURL(raw), "url: %s", raw)
	}
}
