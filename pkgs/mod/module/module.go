// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// A Version represents a requirement reference handed over by the host,
// e.g. "zlib/1.3.1" or "openssl/3.2.0@conan/stable".
type Version struct {
	Path    string // Package name (e.g., "zlib")
	Version string // Version string (e.g., "1.3.1")
	Channel string // Optional "user/channel" qualifier
}

// ParseRef parses a reference in the form "name/version[@user/channel][#revision]".
// The revision suffix is discarded.
func ParseRef(ref string) (Version, error) {
	ref, _, _ = strings.Cut(ref, "#")
	ref, channel, _ := strings.Cut(ref, "@")
	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" {
		return Version{}, fmt.Errorf("invalid reference %q: want name/version", ref)
	}
	if strings.Contains(version, "/") {
		return Version{}, fmt.Errorf("invalid reference %q: unexpected %q in version", ref, "/")
	}
	return Version{Path: name, Version: version, Channel: channel}, nil
}

// String returns the reference form of v.
func (v Version) String() string {
	s := v.Path
	if v.Version != "" {
		s += "/" + v.Version
	}
	if v.Channel != "" {
		s += "@" + v.Channel
	}
	return s
}

// IsSemver reports whether the version follows semantic versioning.
// A missing "v" prefix is tolerated.
func (v Version) IsSemver() bool {
	ver := v.Version
	if !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return semver.IsValid(ver)
}
