// Package types provides type definitions for structured data used throughout the teaser-agent system.
package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyProfile_ValidateComplete(t *testing.T) {
	profile := CompanyProfile{
		Name:         "Acme Robotics",
		Industry:     "Industrial Automation",
		Headquarters: "Munich, Germany",
		Description:  "Builds collaborative robots for mid-size manufacturers.",
		Website:      "https://acme-robotics.example.com",
		Email:        "contact@acme-robotics.example.com",
		Phone:        "+49 89 1234567",
		FoundedYear:  "2012",
		Employees:    "250",
		Revenue:      "40M EUR",
	}

	require.NoError(t, profile.Validate())
}

func TestCompanyProfile_ValidateNameOnly(t *testing.T) {
	profile := CompanyProfile{Name: "Acme Robotics"}
	require.NoError(t, profile.Validate())
}

func TestCompanyProfile_ValidateMissingName(t *testing.T) {
	profile := CompanyProfile{
		Industry: "Industrial Automation",
		Website:  "https://acme-robotics.example.com",
	}

	err := profile.Validate()
	require.Error(t, err)

	var verr *ProfileValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages, "Company Name is required")
}

func TestCompanyProfile_ValidateInvalidFields(t *testing.T) {
	profile := CompanyProfile{
		Name:        "Acme Robotics",
		Website:     "not a url",
		Email:       "not-an-email",
		FoundedYear: "12",
	}

	err := profile.Validate()
	require.Error(t, err)

	var verr *ProfileValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages, "Website must be a valid URL")
	assert.Contains(t, verr.Messages, "Email must be a valid email address")
	assert.Contains(t, verr.Messages, "Founded Year must be a 4-digit year")
}

func TestCompanyProfile_ValidateEmptyOptionalFields(t *testing.T) {
	// Empty optional fields must not trigger their format validators.
	profile := CompanyProfile{
		Name:        "Acme Robotics",
		Website:     "",
		Email:       "",
		FoundedYear: "",
	}

	require.NoError(t, profile.Validate())
}

func TestCompanyProfile_JSONRoundTrip(t *testing.T) {
	profile := CompanyProfile{
		Name:        "Acme Robotics",
		Industry:    "Industrial Automation",
		Website:     "https://acme-robotics.example.com",
		FoundedYear: "2012",
	}

	jsonBytes, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"name":"Acme Robotics"`)
	assert.Contains(t, string(jsonBytes), `"founded_year":"2012"`)
	assert.NotContains(t, string(jsonBytes), `"email"`)

	var decoded CompanyProfile
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, profile, decoded)
}

func TestProfileValidationError_MessageJoining(t *testing.T) {
	err := &ProfileValidationError{Messages: []string{
		"Company Name is required",
		"Email must be a valid email address",
	}}
	assert.Equal(t, "Company Name is required; Email must be a valid email address", err.Error())
}
