package apperr

import (
	"encoding/json"
	"net/http"
)

// Body is the boundary failure response.
type Body struct {
	ErrorKind      Kind   `json:"errorKind"`
	UserMessage    string `json:"userMessage"`
	HTTPStatusHint int    `json:"httpStatusHint"`
}

func BodyOf(err error) Body {
	kind := KindOf(err)
	if kind == "" {
		kind = Unknown
	}
	return Body{
		ErrorKind:      kind,
		UserMessage:    kind.UserMessage(),
		HTTPStatusHint: kind.HTTPStatus(),
	}
}

// WriteHTTP renders err as the failure body with the hinted status code.
func WriteHTTP(w http.ResponseWriter, err error) {
	body := BodyOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.HTTPStatusHint)
	_ = json.NewEncoder(w).Encode(body)
}
