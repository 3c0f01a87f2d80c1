package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

type (
	CallbackURL struct {
		value string
		host  string
	}

	EmailAddress struct {
		value string
	}
)

// NewCallbackURL accepts absolute http and https URLs only.
func NewCallbackURL(rawURL string) (*CallbackURL, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCallbackURL, err)
	}

	parsedURL.Scheme = strings.ToLower(parsedURL.Scheme)
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidCallbackURL, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidCallbackURL)
	}

	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""

	return &CallbackURL{value: parsedURL.String(), host: parsedURL.Hostname()}, nil
}

func (u *CallbackURL) Hostname() string {
	return u.host
}

func (u *CallbackURL) String() string {
	return u.value
}

func NewEmailAddress(raw string) (*EmailAddress, error) {
	address, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return &EmailAddress{value: strings.ToLower(address.Address)}, nil
}

func (e *EmailAddress) String() string {
	return e.value
}
