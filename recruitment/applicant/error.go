package applicant

import (
	"net/http"

	"github.com/Abraxas-365/jobboard/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APPLICANT")

var (
	CodeApplicantNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Applicant not found")
)

func ErrApplicantNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicantNotFound)
}
