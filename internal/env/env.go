// Package env resolves build settings and per-user directories from the
// environment the generator runs in.
package env

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variables overriding the detected settings.
const (
	EnvOS        = "XMAKEGEN_OS"
	EnvArch      = "XMAKEGEN_ARCH"
	EnvBuildType = "XMAKEGEN_BUILD_TYPE"
)

// DefaultBuildType is used when nothing else names one.
const DefaultBuildType = "Release"

// Settings are the build settings a generated section is labeled with.
// Values follow Conan naming ("Linux", "x86_64", "Release").
type Settings struct {
	OS        string `json:"os,omitempty" yaml:"os,omitempty" toml:"os,omitempty"`
	Arch      string `json:"arch,omitempty" yaml:"arch,omitempty" toml:"arch,omitempty"`
	BuildType string `json:"build_type,omitempty" yaml:"build_type,omitempty" toml:"build_type,omitempty"`
}

// Or fills the empty fields of s from def.
func (s Settings) Or(def Settings) Settings {
	if s.OS == "" {
		s.OS = def.OS
	}
	if s.Arch == "" {
		s.Arch = def.Arch
	}
	if s.BuildType == "" {
		s.BuildType = def.BuildType
	}
	return s
}

// Complete reports whether every field is set.
func (s Settings) Complete() bool {
	return s.OS != "" && s.Arch != "" && s.BuildType != ""
}

// FromEnv reads the XMAKEGEN_* variables. Unset variables stay empty.
func FromEnv() Settings {
	return Settings{
		OS:        os.Getenv(EnvOS),
		Arch:      os.Getenv(EnvArch),
		BuildType: os.Getenv(EnvBuildType),
	}
}

// Detect maps the running platform to Conan setting names.
func Detect() Settings {
	return Settings{
		OS:        osName(runtime.GOOS),
		Arch:      archName(runtime.GOARCH),
		BuildType: DefaultBuildType,
	}
}

// Default returns FromEnv completed by Detect.
func Default() Settings {
	return FromEnv().Or(Detect())
}

func osName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return goos
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	case "arm":
		return "armv7"
	case "ppc64le":
		return "ppc64le"
	case "riscv64":
		return "riscv64"
	}
	return goarch
}

// ConfigDir returns the per-user configuration directory of xmakegen.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "xmakegen"), nil
}
