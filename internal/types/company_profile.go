// Package types provides type definitions for structured data used throughout the teaser-agent system.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CompanyProfile represents the company details scraped from a website and
// confirmed (possibly after manual edits) by the user. Every field is
// optional except Name, which is required at confirmation time.
type CompanyProfile struct {
	Name         string `json:"name" validate:"required"`
	Industry     string `json:"industry,omitempty"`
	Headquarters string `json:"headquarters,omitempty"`
	Description  string `json:"description,omitempty"`
	Website      string `json:"website,omitempty" validate:"omitempty,url"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	FoundedYear  string `json:"founded_year,omitempty" validate:"omitempty,len=4,numeric"`
	Employees    string `json:"employees,omitempty"`
	Revenue      string `json:"revenue,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// fieldLabels maps struct field names to the labels shown in validation messages.
var fieldLabels = map[string]string{
	"Name":        "Company Name",
	"Website":     "Website",
	"Email":       "Email",
	"FoundedYear": "Founded Year",
}

// Validate checks the profile before it is sent to the confirm endpoint.
// Violations are reported with human-readable, per-field messages so the
// caller can surface them inline without a server round trip.
func (p *CompanyProfile) Validate() error {
	validate := validator.New()
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", label))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", label))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", label))
		case "len", "numeric":
			msgs = append(msgs, fmt.Sprintf("%s must be a 4-digit year", label))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", label))
		}
	}
	return &ProfileValidationError{Messages: msgs}
}

// ProfileValidationError carries the per-field validation messages for a
// rejected company profile.
type ProfileValidationError struct {
	Messages []string
}

func (e *ProfileValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
