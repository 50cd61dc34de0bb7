package ranking

import (
	"net/http"

	"github.com/Abraxas-365/jobboard/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("RANKING")

// Error codes
var (
	CodeServiceUnavailable = ErrRegistry.Register("SERVICE_UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "Failed to rank applications")
)

func ErrServiceUnavailable() *errx.Error {
	return ErrRegistry.New(CodeServiceUnavailable)
}
