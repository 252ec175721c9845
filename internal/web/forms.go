package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/avisser/todolist/internal/errorz"
)

const methodField = "_method"

// methodOverride lets HTML forms submit PUT and DELETE requests by including
// a _method field in a POST form.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				switch r.PostForm.Get(methodField) {
				case http.MethodPut:
					r.Method = http.MethodPut
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

// decodeForm maps the request form to a value of type IN.
func decodeForm[IN any](srv *Server, r *http.Request) (IN, error) {
	var in IN
	err := r.ParseForm()
	if err != nil {
		return in, err
	}

	// Remove the CSRF token and method override fields from the form,
	// they won't need to be mapped to any target types and the decoder
	// would fail on them.
	r.Form.Del(csrfTokenField)
	r.Form.Del(methodField)

	err = srv.decoder.Decode(&in, r.Form)
	return in, decodeError(err)
}

func decodeError(err error) error {
	if err == nil {
		return nil
	}

	var multiErr schema.MultiError
	if errors.As(err, &multiErr) {
		var invalidInput errorz.InvalidInput
		for key, e := range multiErr {
			invalidInput = append(invalidInput, errorz.Keyed{
				Key: key,
				Err: e,
			})
		}

		return invalidInput
	}

	return err
}
