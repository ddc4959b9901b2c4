package arcgis

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
)

// APIError is a failure reported by the portal, either through an error
// envelope or a non-2xx status.
type APIError struct {
	Operation string
	Code      int
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal %s failed with code %d: %s", e.Operation, e.Code, e.Message)
}

// Unwrap maps "item does not exist" codes to ErrNotFound and everything else to ErrPortal.
func (e *APIError) Unwrap() error {
	if e.Code == http.StatusBadRequest || e.Code == http.StatusNotFound {
		if e.Operation == opGetItem || e.Operation == opItemData {
			return domain.ErrNotFound
		}
	}
	return domain.ErrPortal
}

// checkEnvelope returns an *APIError when body carries a portal error envelope.
func checkEnvelope(op string, body []byte) error {
	var env errorEnvelope
	if json.Unmarshal(body, &env) != nil || env.Error == nil {
		return nil
	}
	msg := env.Error.Message
	if len(env.Error.Details) > 0 {
		msg = fmt.Sprintf("%s (%v)", msg, env.Error.Details)
	}
	return &APIError{Operation: op, Code: env.Error.Code, Message: msg}
}
