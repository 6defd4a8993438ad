package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP { return NewHTTPTimeout(60 * time.Second) }

func NewHTTPTimeout(d time.Duration) *HTTP {
	if d <= 0 {
		d = 60 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: d}}
}
