// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.response, m.err
}

// HTMLResponse builds a response with the given status and HTML body.
func HTMLResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Entry describes one midi-entry block of a listing page.
// Empty fields omit the corresponding element.
type Entry struct {
	Href    string
	Title   string
	Author  string
	Source  string
	Comment string
}

// HTML renders the entry the way the listing site does.
func (e Entry) HTML() string {
	var b strings.Builder
	b.WriteString(`<div class="midi-entry">`)
	if e.Href != "" || e.Title != "" {
		fmt.Fprintf(&b, `<a class="r1 mtitle" href="%s">%s</a>`, e.Href, e.Title)
	}
	if e.Author != "" {
		fmt.Fprintf(&b, `<span class="r1 mauthor">%s</span>`, e.Author)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, `<span class="r3">Source: %s</span>`, e.Source)
	}
	if e.Comment != "" {
		fmt.Fprintf(&b, `<span class="r4">Comment: %s</span>`, e.Comment)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// ListingPage renders a full page containing a midi-list with the given entries.
func ListingPage(entries ...Entry) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>BMP Songs</title></head><body>`)
	b.WriteString(`<div class="header">Bard Music Player</div>`)
	b.WriteString(`<div class="midi-list">`)
	for _, e := range entries {
		b.WriteString(e.HTML())
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}
