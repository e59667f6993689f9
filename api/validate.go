package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/techstaff/pkg/apperr"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Request body schemas, by file name without extension.
const (
	schemaSignup       = "signup"
	schemaSignin       = "signin"
	schemaMission      = "mission"
	schemaApplication  = "application"
	schemaDecision     = "decision"
	schemaTechnician   = "technician"
	schemaAvailability = "availability"
)

// requestDecoder checks request bodies against the embedded JSON schemas
// before decoding them.
type requestDecoder struct {
	schemas map[string]*jsonschema.Schema
}

func newRequestDecoder() (*requestDecoder, error) {
	files, err := fs.Glob(schemaFiles, "schemas/*.json")
	if err != nil {
		return nil, err
	}
	d := &requestDecoder{schemas: make(map[string]*jsonschema.Schema, len(files))}
	for _, f := range files {
		raw, err := schemaFiles.ReadFile(f)
		if err != nil {
			return nil, err
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", f, err)
		}
		d.schemas[strings.TrimSuffix(path.Base(f), ".json")] = rs
	}
	return d, nil
}

func (d *requestDecoder) validate(ctx context.Context, name string, body []byte) error {
	rs, ok := d.schemas[name]
	if !ok {
		return apperr.Newf(apperr.KindInternal, "no schema %q", name)
	}
	verrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			if v.PropertyPath != "" && v.PropertyPath != "/" {
				msgs = append(msgs, v.PropertyPath+": "+v.Message)
				continue
			}
			msgs = append(msgs, v.Message)
		}
		return apperr.Validation(strings.Join(msgs, "; "))
	}
	return nil
}

// decode reads the body of r, validates it against schema name and
// unmarshals it into v.
func (d *requestDecoder) decode(r *http.Request, name string, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := d.validate(r.Context(), name, body); err != nil {
		return err
	}
	return decodeJSON(body, v)
}
