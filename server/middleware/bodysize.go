package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/util"
)

const defaultMaxBodySize = 1 << 20

// BodySizeLimit caps request bodies at maxSize ("1MB", "512KB"). A declared
// Content-Length over the cap is refused with 413 before the handler runs;
// chunked bodies are cut off while reading and surface as
// *http.MaxBytesError from the handler's decoder.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeTooLarge(w)
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooLarge(w http.ResponseWriter) {
	appErr := errors.New(errors.ErrCodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Connection", "close")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
