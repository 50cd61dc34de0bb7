package applicationsrv

import (
	"path"
	"regexp"
	"strings"

	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxResumeBytes is the upload limit used when none is configured
const DefaultMaxResumeBytes = 5 * 1024 * 1024

// allowedResumeTypes maps accepted MIME types to the extension stored
var allowedResumeTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// inspectedResume is an upload that passed size and type checks
type inspectedResume struct {
	FileName     string
	OriginalName string
	ContentType  string
	Data         []byte
}

// inspectResume checks size and sniffs the content type from the bytes. The
// client supplied content type is not trusted.
func inspectResume(file *application.ResumeFile, maxBytes int) (*inspectedResume, error) {
	if file.IsEmpty() {
		return nil, application.ErrMissingResume()
	}
	if len(file.Data) > maxBytes {
		return nil, application.ErrFileSizeTooLarge().
			WithDetail("file_size", len(file.Data)).
			WithDetail("max_size", maxBytes)
	}

	detected := mimetype.Detect(file.Data)
	contentType, ext := "", ""
	for mime, e := range allowedResumeTypes {
		if detected.Is(mime) {
			contentType, ext = mime, e
			break
		}
	}
	if contentType == "" {
		return nil, application.ErrInvalidFileType().
			WithDetail("content_type", detected.String()).
			WithDetail("allowed_types", "pdf, doc, docx")
	}

	return &inspectedResume{
		FileName:     storedFileName(file.Filename, ext),
		OriginalName: file.Filename,
		ContentType:  contentType,
		Data:         file.Data,
	}, nil
}

// storedFileName reduces a client file name to a safe object key segment
// with the extension matching the detected type.
func storedFileName(original, ext string) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "resume"
	}
	if len(base) > 100 {
		base = base[:100]
	}
	return base + ext
}
