// Package registry implements a declarative index build planner.
//
// A [Registry] owns a set of named artifacts and a catalogue of recipes that
// each convert some input artifacts into one or more outputs. Callers
// register artifacts and recipes during single-threaded setup, provide
// filenames for the inputs they already have, and then request target
// artifacts with [Registry.MakeIndexes]. The registry computes a build plan
// over the recipe graph — backtracking across alternative recipes when a
// subtree cannot be satisfied — executes the selected recipes in dependency
// order, and deletes intermediate files afterwards unless retention is
// enabled.
//
// The planner is domain-neutral: recipes are opaque [Executor] callables
// that map input filenames to output filenames. The registry is not safe
// for concurrent use.
package registry

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// Registry owns all artifacts and recipes and coordinates planning,
// execution, and intermediate-file retention. Use [New] to create one; the
// zero value is not usable.
type Registry struct {
	artifacts map[string]*Artifact
	// ids holds identifiers in registration order so that iteration,
	// dependency ordering, and diagnostics are deterministic.
	ids      []string
	suffixes map[string]struct{}

	outputPrefix      string
	keepIntermediates bool
	tempDir           string

	logger *log.Logger
}

// New creates an empty registry. Logging is discarded until [Registry.SetLogger]
// is called.
func New() *Registry {
	return &Registry{
		artifacts: make(map[string]*Artifact),
		suffixes:  make(map[string]struct{}),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// SetLogger sets the logger used for build progress and cleanup warnings.
// A nil logger restores the discarding default.
func (r *Registry) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	r.logger = logger
}

// SetOutputPrefix sets the path prefix under which non-intermediate
// artifacts are materialised.
func (r *Registry) SetOutputPrefix(prefix string) {
	r.outputPrefix = prefix
}

// OutputPrefix returns the configured output prefix.
func (r *Registry) OutputPrefix() string { return r.outputPrefix }

// SetKeepIntermediates controls intermediate-file retention. When true,
// every produced artifact is written under the output prefix and nothing is
// deleted at the end of a build.
func (r *Registry) SetKeepIntermediates(keep bool) {
	r.keepIntermediates = keep
}

// SetTempDir sets the directory used for intermediate artifact files.
// When unset, os.TempDir() is used.
func (r *Registry) SetTempDir(dir string) {
	r.tempDir = dir
}

// TempDir returns the directory used for intermediate artifact files.
func (r *Registry) TempDir() string {
	if r.tempDir != "" {
		return r.tempDir
	}
	return os.TempDir()
}

// RegisterArtifact adds an artifact with the given identifier and filename
// suffix. Identifiers and suffixes must each be unique across the registry.
// Registration failures indicate configuration bugs and are not recoverable.
func (r *Registry) RegisterArtifact(identifier, suffix string) error {
	if err := errors.ValidateIdentifier(identifier); err != nil {
		return err
	}
	if err := errors.ValidateSuffix(suffix); err != nil {
		return err
	}
	if _, exists := r.artifacts[identifier]; exists {
		return errors.New(errors.ErrCodeDuplicateIdentifier, "artifact %q is already registered", identifier)
	}
	if _, exists := r.suffixes[suffix]; exists {
		return errors.New(errors.ErrCodeDuplicateSuffix, "suffix %q is already registered", suffix)
	}
	r.artifacts[identifier] = &Artifact{identifier: identifier, suffix: suffix}
	r.ids = append(r.ids, identifier)
	r.suffixes[suffix] = struct{}{}
	return nil
}

// RegisterRecipe appends a recipe to the named output artifact's recipe
// list. The relative order of RegisterRecipe calls on the same output
// defines priority: earliest registration is tried first. Every input must
// already be registered.
func (r *Registry) RegisterRecipe(output string, inputs []string, exec Executor) error {
	target, err := r.artifact(output)
	if err != nil {
		return err
	}
	resolved := make([]*Artifact, len(inputs))
	for i, input := range inputs {
		in, err := r.artifact(input)
		if err != nil {
			return err
		}
		resolved[i] = in
	}
	target.addRecipe(resolved, exec)
	return nil
}

// Provide marks an artifact as directly provided and seeds its filenames.
func (r *Registry) Provide(identifier string, filenames ...string) error {
	a, err := r.artifact(identifier)
	if err != nil {
		return err
	}
	if len(filenames) == 0 {
		return errors.New(errors.ErrCodeInvalidProvisions, "artifact %q provided without filenames", identifier)
	}
	a.provide(filenames)
	return nil
}

// Artifact returns the artifact with the given identifier and true, or nil
// and false if it is not registered.
func (r *Registry) Artifact(identifier string) (*Artifact, bool) {
	a, ok := r.artifacts[identifier]
	return a, ok
}

// Artifacts returns all registered artifacts in registration order.
func (r *Registry) Artifacts() []*Artifact {
	artifacts := make([]*Artifact, len(r.ids))
	for i, id := range r.ids {
		artifacts[i] = r.artifacts[id]
	}
	return artifacts
}

// CompletedArtifacts returns the identifiers of all finished artifacts, in
// registration order.
func (r *Registry) CompletedArtifacts() []string {
	var completed []string
	for _, id := range r.ids {
		if r.artifacts[id].IsFinished() {
			completed = append(completed, id)
		}
	}
	return completed
}

func (r *Registry) artifact(identifier string) (*Artifact, error) {
	a, ok := r.artifacts[identifier]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownArtifact, "artifact %q is not registered", identifier)
	}
	return a, nil
}

// tempStem returns the content-addressed filename stem used for an
// intermediate artifact's output prefix: the hex SHA-1 of its identifier.
func tempStem(identifier string) string {
	sum := sha1.Sum([]byte(identifier))
	return hex.EncodeToString(sum[:])
}
