package chi

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeInvariantViolation ErrorCode = "invariant_violation"
	ErrorCodePortalError        ErrorCode = "portal_error"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateWebMapRequest is the body of POST /api/v1/webmaps.
type CreateWebMapRequest struct {
	Project string   `json:"project"`
	Layers  []string `json:"layers"`
	Tags    []string `json:"tags"`
}

// CreateWebMapResponse describes the saved web map.
type CreateWebMapResponse struct {
	ID     string          `json:"id"`
	Popups []PopupResponse `json:"popups"`
}

// PopupResponse reports the popup built for one layer.
type PopupResponse struct {
	Layer           string   `json:"layer"`
	Kind            string   `json:"kind"`
	UnmatchedFields []string `json:"unmatched_fields"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
