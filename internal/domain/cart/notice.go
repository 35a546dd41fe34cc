package cart

import (
	"fmt"
	"strings"

	xhtml "golang.org/x/net/html"
)

type NoticeType string

const (
	NoticeError   NoticeType = "error"
	NoticeSuccess NoticeType = "success"
)

// Notice is a human-readable message produced by a mutation attempt.
// Notices are values carried on the result, never process-wide state.
type Notice struct {
	Type NoticeType
	Text string
}

func ErrorNotice(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeError, Text: fmt.Sprintf(format, args...)}
}

// RejectedError carries the ordered notices a failed mutation produced,
// plus an optional typed cause for status mapping. Only the first notice
// is ever surfaced to the caller.
type RejectedError struct {
	Notices []Notice
	Err     error
}

func (e *RejectedError) Error() string {
	if msg := FirstMessage(e.Notices); msg != "" {
		return msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "mutation rejected"
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// Reject wraps a failure into a RejectedError with a single notice built
// from the error's own message.
func Reject(err error) *RejectedError {
	return &RejectedError{
		Notices: []Notice{{Type: NoticeError, Text: err.Error()}},
		Err:     err,
	}
}

// viewCartBoilerplate is the link text the cart engine appends to several
// of its notices; callers never want it in an API error message.
const viewCartBoilerplate = "View Cart"

// FirstMessage applies the first-notice policy: take the first notice if
// any exist, strip markup, drop the boilerplate link text. Returns ""
// when there are no notices.
func FirstMessage(notices []Notice) string {
	if len(notices) == 0 {
		return ""
	}
	return CleanNoticeText(notices[0].Text)
}

func CleanNoticeText(text string) string {
	text = stripTags(text)
	text = strings.ReplaceAll(text, viewCartBoilerplate, "")
	return strings.TrimSpace(text)
}

func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			b.Write(z.Text())
		}
	}
}
