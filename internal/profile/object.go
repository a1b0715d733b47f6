package profile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/clickr/internal/errors"
)

// object is a decoded JSON object that reports schema errors against its
// path in the document (e.g. "layers[1].remappings[0].bind").
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func parseObject(data []byte, path string) (*object, error) {
	if isNull(data) {
		return nil, errors.NewSchema(path, "is required")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.NewSchema(path, "must be a JSON object")
	}
	return &object{path: path, fields: fields}, nil
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (o *object) at(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

func (o *object) has(name string) bool {
	raw, ok := o.fields[name]
	return ok && !isNull(raw)
}

// raw returns a required field without decoding it.
func (o *object) raw(name string) (json.RawMessage, error) {
	if !o.has(name) {
		return nil, errors.NewSchema(o.at(name), "is required")
	}
	return o.fields[name], nil
}

func (o *object) str(name string) (string, error) {
	raw, err := o.raw(name)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.NewSchema(o.at(name), "must be a string")
	}
	return s, nil
}

// key returns a required, non-empty key identifier.
func (o *object) key(name string) (string, error) {
	s, err := o.str(name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errors.NewSchema(o.at(name), "must not be empty")
	}
	return s, nil
}

// optStr returns def when the field is absent or null.
func (o *object) optStr(name, def string) (string, error) {
	if !o.has(name) {
		return def, nil
	}
	return o.str(name)
}

func (o *object) integer(name string) (int, error) {
	raw, err := o.raw(name)
	if err != nil {
		return 0, err
	}
	return decodeInt(raw, o.at(name))
}

// nonNegInt decodes a required integer that must be >= 0.
func (o *object) nonNegInt(name string) (int, error) {
	n, err := o.integer(name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.NewSchema(o.at(name), "must not be negative")
	}
	return n, nil
}

func (o *object) array(name string) ([]json.RawMessage, error) {
	raw, err := o.raw(name)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.NewSchema(o.at(name), "must be an array")
	}
	return items, nil
}

func decodeInt(raw json.RawMessage, path string) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.NewSchema(path, "must be an integer")
	}
	return n, nil
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
