package chi

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// Pagination bounds for list endpoints.
const (
	defaultLimit = 10
	maxLimit     = 100
)

// queryLimit binds the optional limit parameter and clamps it to [1, maxLimit].
func queryLimit(r *http.Request, def int) (int, error) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return 0, err //nolint:wrapcheck // reported as a bad request
	}
	if limit == nil {
		return def, nil
	}
	return min(max(*limit, 1), maxLimit), nil
}

// queryString binds an optional string parameter.
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", err //nolint:wrapcheck // reported as a bad request
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// queryBool binds an optional boolean parameter; absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, err //nolint:wrapcheck // reported as a bad request
	}
	return v != nil && *v, nil
}

func writeParamError(w http.ResponseWriter, name string, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    codeBadRequest,
		Message: "Invalid query parameter " + name + ": " + err.Error(),
		Field:   name,
	})
}
