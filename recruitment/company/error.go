package company

import (
	"net/http"

	"github.com/Abraxas-365/jobboard/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("COMPANY")

var (
	CodeCompanyNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Company not found")
)

func ErrCompanyNotFound() *errx.Error {
	return ErrRegistry.New(CodeCompanyNotFound)
}
