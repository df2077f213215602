package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"orcafacil/internal/learned"
	"orcafacil/internal/matcher"
	"orcafacil/internal/pipeline"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusBadRequest:            {"https://orcafacil.dev/errors/bad-request", "Bad Request"},
	http.StatusNotFound:              {"https://orcafacil.dev/errors/not-found", "Not Found"},
	http.StatusConflict:              {"https://orcafacil.dev/errors/conflict", "Conflict"},
	http.StatusRequestEntityTooLarge: {"https://orcafacil.dev/errors/too-large", "Payload Too Large"},
	http.StatusUnprocessableEntity:   {"https://orcafacil.dev/errors/validation-error", "Validation Error"},
	http.StatusInternalServerError:   {"https://orcafacil.dev/errors/internal-error", "Internal Server Error"},
	http.StatusBadGateway:            {"https://orcafacil.dev/errors/remote-match", "Bad Gateway"},
}

func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt.typeURI = "https://orcafacil.dev/errors/unknown"
		pt.title = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	})
	if err != nil {
		log.Error().Err(err).Msg("encode problem response")
	}
}

// MapError converts domain errors to problem responses. Unknown errors are
// logged and reported without detail.
func MapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, matcher.ErrRemoteMatch):
		WriteProblem(w, r, http.StatusBadGateway, err.Error())
	case errors.Is(err, pipeline.ErrEmptyCatalog):
		WriteProblem(w, r, http.StatusConflict, "No catalog loaded")
	case errors.Is(err, learned.ErrImportInvalid):
		WriteProblem(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pipeline.ErrNoMatch):
		WriteProblem(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
