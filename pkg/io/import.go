package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/indexforge/pkg/errors"
	"github.com/matzehuels/indexforge/pkg/registry"
)

// Provisions maps artifact identifiers to the input files the caller
// already has, e.g. {"Reference FASTA": ["ref.fa"]}.
type Provisions map[string][]string

// ReadProvisions decodes a provisions document from r.
func ReadProvisions(r io.Reader) (Provisions, error) {
	var p Provisions
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProvisions, err, "decode provisions")
	}
	return p, nil
}

// ReadProvisionsFile decodes a provisions document from a JSON file at path.
func ReadProvisionsFile(path string) (Provisions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProvisions, err, "open %s", path)
	}
	defer f.Close()
	return ReadProvisions(f)
}

// Apply provides every listed artifact to the registry. Unregistered
// identifiers and empty filename lists surface as errors.
func (p Provisions) Apply(reg *registry.Registry) error {
	for identifier, filenames := range p {
		if err := reg.Provide(identifier, filenames...); err != nil {
			return err
		}
	}
	return nil
}
