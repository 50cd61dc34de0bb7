package application

import (
	"net/http"

	"github.com/Abraxas-365/jobboard/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeDuplicateApplication    = ErrRegistry.Register("DUPLICATE", errx.TypeConflict, http.StatusConflict, "You have already applied for this job")
	CodeInvalidRequest          = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeMissingResume           = ErrRegistry.Register("MISSING_RESUME", errx.TypeValidation, http.StatusBadRequest, "Resume is required")
	CodeInvalidStatus           = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid application status")
	CodeInvalidStatusTransition = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Invalid status transition")
	CodeStatusConflict          = ErrRegistry.Register("STATUS_CONFLICT", errx.TypeConflict, http.StatusConflict, "Application status was changed concurrently")
	CodeUpstreamStorageFailure  = ErrRegistry.Register("UPSTREAM_STORAGE_FAILURE", errx.TypeExternal, http.StatusBadGateway, "Failed to store resume")
	CodeFileSizeTooLarge        = ErrRegistry.Register("FILE_SIZE_TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "File size exceeds maximum allowed")
	CodeInvalidFileType         = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusUnsupportedMediaType, "Invalid file type")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrDuplicateApplication() *errx.Error {
	return ErrRegistry.New(CodeDuplicateApplication)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrMissingResume() *errx.Error {
	return ErrRegistry.New(CodeMissingResume)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrStatusConflict() *errx.Error {
	return ErrRegistry.New(CodeStatusConflict)
}

func ErrUpstreamStorageFailure() *errx.Error {
	return ErrRegistry.New(CodeUpstreamStorageFailure)
}

func ErrFileSizeTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileSizeTooLarge)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}
