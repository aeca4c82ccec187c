package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Options(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	tests := []struct {
		name        string
		opts        []Option
		wantTimeout time.Duration
		wantClient  *http.Client
	}{
		{name: "no timeout by default"},
		{name: "explicit timeout", opts: []Option{WithTimeout(3 * time.Second)}, wantTimeout: 3 * time.Second},
		{name: "custom http client", opts: []Option{WithHTTPClient(custom)}, wantClient: custom},
		{name: "nil http client ignored", opts: []Option{WithHTTPClient(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New("", tt.opts...)
			assert.Equal(t, tt.wantTimeout, c.httpClient.Timeout)
			if tt.wantClient != nil {
				assert.Same(t, tt.wantClient, c.httpClient)
			} else {
				assert.NotNil(t, c.httpClient)
			}
		})
	}
}
