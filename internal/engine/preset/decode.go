package preset

import (
	"bytes"
	"errors"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Decode converts resolved options into the typed schema T.
// Unknown keys and mistyped values are ErrOptionsInvalid.
func Decode[T any](opts domain.Options) (T, error) {
	var out T
	raw, err := yaml.Marshal(opts.Map())
	if err != nil {
		return out, zerr.Wrap(errors.Join(domain.ErrOptionsInvalid, err), "failed to encode options")
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return out, errors.Join(domain.ErrOptionsInvalid, err)
	}
	return out, nil
}
