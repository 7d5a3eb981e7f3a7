// Package manifest decodes the resolved dependency graph a host hands over to
// the generator.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goplus/xmakegen/internal/env"
	"github.com/goplus/xmakegen/internal/logging"
	"github.com/goplus/xmakegen/internal/logging/logfields"
	"github.com/goplus/xmakegen/pkgs/buildinfo"
	"github.com/goplus/xmakegen/pkgs/mod/module"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "manifest")

var (
	// ErrUnknownFormat is returned for a manifest file extension no decoder handles.
	ErrUnknownFormat = errors.New("unknown manifest format")

	// ErrNoConfigurations is returned by Validate for a manifest without configurations.
	ErrNoConfigurations = errors.New("manifest has no configurations")
)

// Manifest is the resolved graph for one or more build configurations.
type Manifest struct {
	Configurations []Configuration `json:"configurations" yaml:"configurations" toml:"configurations"`
}

// Configuration is the graph resolved for one set of build settings.
type Configuration struct {
	Settings env.Settings `json:"settings" yaml:"settings" toml:"settings"`
	Requires Requires     `json:"requires" yaml:"requires" toml:"requires"`
}

// Requires lists requirements per context.
type Requires struct {
	Host  []Requirement `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	Test  []Requirement `json:"test,omitempty" yaml:"test,omitempty" toml:"test,omitempty"`
	Build []Requirement `json:"build,omitempty" yaml:"build,omitempty" toml:"build,omitempty"`
}

// Requirement is one resolved dependency.
type Requirement struct {
	Ref           string            `json:"ref" yaml:"ref" toml:"ref"`
	PackageFolder string            `json:"package_folder,omitempty" yaml:"package_folder,omitempty" toml:"package_folder,omitempty"`
	CppInfo       buildinfo.CppInfo `json:"cpp_info" yaml:"cpp_info" toml:"cpp_info"`
}

// Parse reads and parses a manifest from either provided data or a file path.
// If data is non-nil, it is used directly and only the extension of file is
// looked at. The decoder is chosen by extension: .json, .yaml/.yml, .toml
// or .hcl.
func Parse(file string, data []byte) (*Manifest, error) {
	if data == nil {
		var err error
		if data, err = os.ReadFile(file); err != nil {
			return nil, err
		}
	}

	var m Manifest
	var err error
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&m); errors.Is(err, io.EOF) {
			err = nil
		}
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&m)
	case ".hcl":
		err = decodeHCL(file, data, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", file, err)
	}
	log.WithField(logfields.File, file).Debugf("Loaded %d configuration(s)", len(m.Configurations))
	return &m, nil
}

// Validate checks that m holds at least one configuration and that every
// requirement reference parses.
func (m *Manifest) Validate() error {
	if len(m.Configurations) == 0 {
		return ErrNoConfigurations
	}
	for n := range m.Configurations {
		if _, err := m.Configurations[n].Dependencies(); err != nil {
			return fmt.Errorf("configuration %d: %w", n, err)
		}
	}
	return nil
}

// Dependencies converts the requirements of c into buildinfo form.
func (c *Configuration) Dependencies() (buildinfo.Dependencies, error) {
	var deps buildinfo.Dependencies
	var err error
	if deps.Host, err = convert(c.Requires.Host); err != nil {
		return deps, err
	}
	if deps.Test, err = convert(c.Requires.Test); err != nil {
		return deps, err
	}
	if deps.Build, err = convert(c.Requires.Build); err != nil {
		return deps, err
	}
	return deps, nil
}

func convert(reqs []Requirement) ([]buildinfo.Dependency, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	deps := make([]buildinfo.Dependency, len(reqs))
	for n, req := range reqs {
		ref, err := module.ParseRef(req.Ref)
		if err != nil {
			return nil, err
		}
		if !ref.IsSemver() {
			log.WithField(logfields.Ref, req.Ref).Debug("Version is not semantic")
		}
		deps[n] = buildinfo.Dependency{
			Ref:           ref,
			PackageFolder: req.PackageFolder,
			CppInfo:       req.CppInfo,
		}
	}
	return deps, nil
}
