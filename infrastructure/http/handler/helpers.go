package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/domain/valueobject"
	"github.com/missionboard/missionboard/infrastructure/http/middleware"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/http/validator"
)

// decode reads a JSON body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// pathID returns the named path variable if it is a well-formed id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := mux.Vars(r)[name]
	if !validator.ValidateID(id) {
		response.BadRequest(w, name+" must be a valid id")
		return "", false
	}
	return id, true
}

// principal returns the request's principal. Access rules keep anonymous
// requests away from these handlers, so a nil here is a wiring mistake and
// is reported as authentication required.
func principal(w http.ResponseWriter, r *http.Request) (*valueobject.Principal, bool) {
	p := middleware.PrincipalFrom(r.Context())
	if p == nil {
		response.Fail(r.Context(), w, nil, inbound.ErrAuthenticationRequired)
		return nil, false
	}
	return p, true
}
