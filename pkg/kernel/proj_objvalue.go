package kernel

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

type JobTitle string

type JobDescription string

type JobRequirement string

type JobLocation string

type FullName string

type Email string

func (e Email) String() string { return string(e) }

// Normalized lower-cases and trims the address
func (e Email) Normalized() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

type Phone string

func (p Phone) String() string { return string(p) }

type CoverLetter string

// Length counts characters, not bytes
func (c CoverLetter) Length() int {
	return utf8.RuneCountInString(string(c))
}

// ResumeURL is a public URL pointing at a stored resume
type ResumeURL string

func (u ResumeURL) String() string { return string(u) }
func (u ResumeURL) IsEmpty() bool  { return string(u) == "" }

// Viewable strips forced-download directives so that opening the URL in a
// browser renders the document. Both CDN-style path flags
// (".../upload/fl_attachment/...") and download query parameters
// (response-content-disposition=attachment, download, dl) are removed.
// Unparseable values are returned unchanged.
func (u ResumeURL) Viewable() ResumeURL {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return u
	}

	segments := strings.Split(parsed.Path, "/")
	kept := segments[:0]
	pathChanged := false
	for _, seg := range segments {
		cleaned := stripAttachmentFlags(seg)
		if cleaned != seg {
			pathChanged = true
		}
		if cleaned == "" && seg != "" {
			continue
		}
		kept = append(kept, cleaned)
	}
	if pathChanged {
		parsed.Path = strings.Join(kept, "/")
		parsed.RawPath = ""
	}

	if parsed.RawQuery != "" {
		q := parsed.Query()
		queryChanged := false
		for key, values := range q {
			if isDownloadParam(key, values) {
				q.Del(key)
				queryChanged = true
			}
		}
		if queryChanged {
			parsed.RawQuery = q.Encode()
		}
	}

	return ResumeURL(parsed.String())
}

// stripAttachmentFlags drops fl_attachment transformation flags from a
// comma separated path segment. fl_attachment:false is kept, it already
// means inline.
func stripAttachmentFlags(segment string) string {
	if !strings.Contains(strings.ToLower(segment), "fl_attachment") {
		return segment
	}

	parts := strings.Split(segment, ",")
	kept := parts[:0]
	for _, p := range parts {
		lp := strings.ToLower(p)
		if lp == "fl_attachment" || (strings.HasPrefix(lp, "fl_attachment:") && lp != "fl_attachment:false") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ",")
}

func isDownloadParam(key string, values []string) bool {
	switch strings.ToLower(key) {
	case "download", "dl":
		return true
	case "response-content-disposition":
		for _, v := range values {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "attachment") {
				return true
			}
		}
	}
	return false
}
