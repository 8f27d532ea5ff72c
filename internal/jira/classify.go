package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andywolf/jiralite/internal/domain"
)

// Classify converts a non-success response into a domain error.
//
// 401 maps to an authentication error and 404 to a not-found error. Any other
// status becomes an API error whose message is the body's "errorMessages"
// joined with "; ", or the status code when the body carries none. A body
// that is not JSON yields "HTTP <status>". Classify never fails.
func Classify(statusCode int, body []byte) *domain.Error {
	switch statusCode {
	case http.StatusUnauthorized:
		return &domain.Error{
			Kind:       domain.KindAuthentication,
			Message:    "Authentication failed. Check email and API token.",
			StatusCode: statusCode,
		}
	case http.StatusNotFound:
		return domain.NewNotFoundError("Issue not found")
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.NewAPIError(fmt.Sprintf("HTTP %d", statusCode), statusCode)
	}

	return domain.NewAPIError(errorMessages(payload, statusCode), statusCode)
}

func errorMessages(payload interface{}, statusCode int) string {
	raw, present := asObject(payload)["errorMessages"]
	if !present {
		return strconv.Itoa(statusCode)
	}

	switch msgs := raw.(type) {
	case string:
		return msgs
	case []interface{}:
		parts := make([]string, 0, len(msgs))
		for _, m := range msgs {
			if s, ok := m.(string); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, fmt.Sprint(m))
			}
		}
		return strings.Join(parts, "; ")
	default:
		return strconv.Itoa(statusCode)
	}
}
