package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/spf13/cast"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// readFields pulls the named fields out of a JSON or form-encoded body as
// strings. Absent, null and non-scalar JSON values come back empty.
func readFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	out := make(map[string]string, len(names))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, errInvalidBody
		}
		for _, n := range names {
			out[n] = r.PostForm.Get(n)
		}
		return out, nil
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, errInvalidBody
	}
	for _, n := range names {
		v, ok := raw[n]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		out[n] = s
	}
	return out, nil
}
