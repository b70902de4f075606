package client_test

import (
	"testing"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/tools/client"
	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		options, err := client.NewOptions(client.WithBaseURL("https://booking.example.com/"))

		assert.Nil(t, err)
		assert.Equal(t, "agent-portal", options.Name())
		assert.Equal(t, "https://booking.example.com", options.BaseURL())
		assert.Equal(t, client.DefaultTimeout, options.Timeout())
	})

	t.Run("should apply options", func(t *testing.T) {
		options, err := client.NewOptions(
			client.WithBaseURL("http://localhost:5000"),
			client.WithName("portal-test"),
			client.WithTimeout(2*time.Second),
		)

		assert.Nil(t, err)
		assert.Equal(t, "portal-test", options.Name())
		assert.Equal(t, 2*time.Second, options.Timeout())
	})

	t.Run("should reject invalid options", func(t *testing.T) {
		tests := []struct {
			name    string
			options []client.OptionFunc
		}{
			{"missing url", nil},
			{"no protocol", []client.OptionFunc{client.WithBaseURL("booking.example.com")}},
			{"negative timeout", []client.OptionFunc{client.WithBaseURL("http://x"), client.WithTimeout(-time.Second)}},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				_, err := client.NewOptions(test.options...)
				assert.NotNil(t, err)
			})
		}
	})
}
