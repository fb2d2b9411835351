// FILE: chassis/builder.go
package chassis

import (
	"errors"
	"fmt"
)

// ValidatorFunc defines the signature for a function that can validate a
// built Settings value. It receives the fully resolved profile and should
// return an error if validation fails.
type ValidatorFunc func(s *Settings) error

// Builder provides a fluent interface for building a resolved profile.
type Builder struct {
	file       string
	section    string
	envPrefix  string
	environ    map[string]string
	document   *Document
	discovery  *FileDiscoveryOptions
	validators []ValidatorFunc
}

// NewBuilder creates a new settings builder.
func NewBuilder() *Builder {
	return &Builder{validators: make([]ValidatorFunc, 0)}
}

// WithFile sets the configuration file path.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithSection scopes resolution to a sub-table of the loaded document.
func (b *Builder) WithSection(path string) *Builder {
	b.section = path
	return b
}

// WithEnvPrefix sets a prefix prepended to every field's env key at lookup.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithEnviron injects an environment snapshot in place of the process one.
func (b *Builder) WithEnviron(environ map[string]string) *Builder {
	b.environ = environ
	return b
}

// WithDocument injects an already-parsed document, skipping file loading.
func (b *Builder) WithDocument(doc Document) *Builder {
	b.document = &doc
	return b
}

// WithFileDiscovery enables automatic config file discovery when no explicit
// file is set.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// WithValidator adds a validation function that runs at the end of the build.
// Multiple validators can be added and are executed in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Sources composes the resolution inputs: the environment snapshot and the
// loaded document. A missing configuration file yields an empty document
// alongside ErrConfigNotFound, which callers may treat as non-fatal.
func (b *Builder) Sources() (Sources, error) {
	environ := b.environ
	if environ == nil {
		environ = CaptureEnviron()
	}

	doc := Document{}
	var loadErr error
	switch {
	case b.document != nil:
		doc = *b.document
	case b.file != "":
		doc, loadErr = LoadDocument(b.file)
	case b.discovery != nil:
		if path, found := DiscoverFile(*b.discovery); found {
			doc, loadErr = LoadDocument(path)
		} else {
			loadErr = ErrConfigNotFound
		}
	}
	if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
		return Sources{}, loadErr
	}

	if b.section != "" {
		doc = doc.Section(b.section)
	}

	// ErrConfigNotFound or nil
	return Sources{Environ: environ, Document: doc, EnvPrefix: b.envPrefix}, loadErr
}

// Build resolves the full profile with all specified options.
func (b *Builder) Build() (*Settings, error) {
	src, loadErr := b.Sources()
	if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
		return nil, loadErr
	}

	settings, err := BuildSettings(src)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(settings); err != nil {
			return nil, fmt.Errorf("settings validation failed: %w", err)
		}
	}

	// ErrConfigNotFound or nil
	return settings, loadErr
}

// MustBuild is like Build but panics on error. ErrConfigNotFound is not
// fatal: the profile can proceed on environment variables and defaults.
func (b *Builder) MustBuild() *Settings {
	settings, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("settings build failed: %v", err))
	}
	return settings
}
