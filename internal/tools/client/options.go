package client

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTimeout = 30 * time.Second

type OptionFunc func(o *Options)

type Options struct {
	// Name of the caller service, used for logging and the user agent
	name string

	// BaseURL - full URL to the service (including protocol)
	baseURL string

	// Timeout - if not set, then default timeout is used
	timeout time.Duration
}

func WithName(name string) OptionFunc {
	return func(o *Options) {
		o.name = name
	}
}

func WithBaseURL(baseURL string) OptionFunc {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(o *Options) {
		o.timeout = timeout
	}
}

func NewOptions(optionFuncs ...OptionFunc) (*Options, error) {
	options := &Options{
		name: "agent-portal",
	}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	if options.baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if !strings.HasPrefix(options.baseURL, "http://") && !strings.HasPrefix(options.baseURL, "https://") {
		return nil, fmt.Errorf("base url %q must start with http:// or https://", options.baseURL)
	}

	if options.timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}

	return options, nil
}

func (o *Options) Name() string {
	return o.name
}

// BaseURL never ends with a slash.
func (o *Options) BaseURL() string {
	return strings.TrimRight(o.baseURL, "/")
}

func (o *Options) Timeout() time.Duration {
	if o.timeout != 0 {
		return o.timeout
	}
	return DefaultTimeout
}
