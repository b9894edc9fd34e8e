package validation

import (
	"net/url"
	"strings"

	"ytworkout/config"
	"ytworkout/errors"
)

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateURL checks that the input is a plausible YouTube video URL.
// Identifier extraction itself happens in the youtube package.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if strings.TrimSpace(urlStr) == "" {
		return errors.InvalidInput(op, nil, "Please enter a YouTube URL to process.")
	}

	parsedURL, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return errors.InvalidURL(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidURL(op, nil, "URL must use HTTP or HTTPS")
	}

	host := parsedURL.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return errors.InvalidURL(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}
