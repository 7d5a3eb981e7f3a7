package internal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/xmakegen/internal/env"
	"github.com/goplus/xmakegen/internal/manifest"
	"github.com/goplus/xmakegen/pkgs/buildinfo"
	"github.com/goplus/xmakegen/pkgs/generator/xmake"
	"github.com/goplus/xmakegen/pkgs/mod/module"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		arg        string
		wantRef    module.Version
		wantPrefix string
		wantErr    bool
	}{
		{"zlib/1.3.1=/opt/zlib", module.Version{Path: "zlib", Version: "1.3.1"}, "/opt/zlib", false},
		{"fmt/10.2.1@acme/stable=rel/fmt", module.Version{Path: "fmt", Version: "10.2.1", Channel: "acme/stable"}, "rel/fmt", false},
		{"boost/1.84.0=/opt/a=b", module.Version{Path: "boost", Version: "1.84.0"}, "/opt/a=b", false},
		{"zlib/1.3.1", module.Version{}, "", true},
		{"zlib/1.3.1=", module.Version{}, "", true},
		{"zlib=/opt/zlib", module.Version{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			ref, prefix, err := parseAssignment(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAssignment(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if ref != tt.wantRef {
				t.Errorf("parseAssignment(%q) ref = %+v, want %+v", tt.arg, ref, tt.wantRef)
			}
			if prefix != tt.wantPrefix {
				t.Errorf("parseAssignment(%q) prefix = %q, want %q", tt.arg, prefix, tt.wantPrefix)
			}
		})
	}
}

func TestAddConfigurations_Settings(t *testing.T) {
	t.Setenv(env.EnvOS, "Windows")
	t.Setenv(env.EnvArch, "x86")
	t.Setenv(env.EnvBuildType, "RelWithDebInfo")

	m := &manifest.Manifest{Configurations: []manifest.Configuration{
		{Settings: env.Settings{OS: "Linux", Arch: "x86_64", BuildType: "Debug"}},
		{Settings: env.Settings{OS: "Macos"}},
		{},
	}}

	tests := []struct {
		name     string
		override env.Settings
		fallback env.Settings
		want     []string
	}{
		{
			name: "manifest then environment",
			want: []string{"Linux_x86_64_Debug", "Macos_x86_RelWithDebInfo", "Windows_x86_RelWithDebInfo"},
		},
		{
			name:     "config before environment",
			fallback: env.Settings{Arch: "armv8"},
			want:     []string{"Linux_x86_64_Debug", "Macos_armv8_RelWithDebInfo", "Windows_armv8_RelWithDebInfo"},
		},
		{
			name:     "flags override manifest",
			override: env.Settings{BuildType: "Release"},
			want:     []string{"Linux_x86_64_Release", "Macos_x86_Release", "Windows_x86_Release"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := xmake.New()
			if err := addConfigurations(g, m, tt.override, tt.fallback); err != nil {
				t.Fatalf("addConfigurations() error = %v", err)
			}
			var got []string
			for _, s := range g.Sections() {
				got = append(got, s.Triple.Key())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("section keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// execute runs the root command with a clean flag state and no config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	cfgFile, logLevel, logFormat, verbose = "", "", "", false
	generateManifest, generateDir, generatePrint = "", "", false
	generateSettings = env.Settings{}
	scanDir, scanPrint = "", false
	scanSettings = env.Settings{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const testManifest = `configurations:
  - settings: {os: Linux, arch: x86_64, build_type: Debug}
    requires:
      host:
        - ref: zlib/1.3.1
          package_folder: /p/zlib
          cpp_info:
            includedirs: [include]
            libs: [z]
      build:
        - ref: protobuf/3.21.12
          cpp_info:
            libs: [protobuf, z]
            defines: ['PB_NAME="pb"']
  - requires:
      host:
        - ref: zlib/1.3.1
          cpp_info:
            libs: [z]
`

func TestGeneratePrint(t *testing.T) {
	t.Setenv(env.EnvOS, "Windows")
	t.Setenv(env.EnvArch, "x86")
	t.Setenv(env.EnvBuildType, "Release")

	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := execute(t, "generate", "-f", path, "--print")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	want := xmake.Render(
		xmake.Section{
			Triple: xmake.Triple{Plat: "Linux", Arch: "x86_64", Mode: "Debug"},
			Fields: xmake.NewFields(buildinfo.Info{
				IncludeDirs: []string{filepath.Join("/p/zlib", "include")},
				Libs:        []string{"z", "protobuf"},
				Defines:     []string{`PB_NAME="pb"`},
			}),
		},
		xmake.Section{
			Triple: xmake.Triple{Plat: "Windows", Arch: "x86", Mode: "Release"},
			Fields: xmake.NewFields(buildinfo.Info{Libs: []string{"z"}}),
		},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generate output mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "build")

	if _, err := execute(t, "generate", "-f", path, "-C", out, "--os", "Linux", "--arch", "armv8", "--build-type", "Release"); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, xmake.Filename))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if n := strings.Count(content, "Linux_armv8_Release = \n"); n != 2 {
		t.Errorf("found %d Linux_armv8_Release sections, want 2:\n%s", n, content)
	}
	if !strings.HasPrefix(content, "{\n") || !strings.HasSuffix(content, "\n}") {
		t.Errorf("content is not a single table:\n%s", content)
	}
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"configurations": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "generate", "-f", empty, "--print"); !errors.Is(err, manifest.ErrNoConfigurations) {
		t.Errorf("generate(empty) error = %v, want %v", err, manifest.ErrNoConfigurations)
	}

	unknown := filepath.Join(dir, "graph.ini")
	if err := os.WriteFile(unknown, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "generate", "-f", unknown, "--print"); !errors.Is(err, manifest.ErrUnknownFormat) {
		t.Errorf("generate(ini) error = %v, want %v", err, manifest.ErrUnknownFormat)
	}
}

func TestScan(t *testing.T) {
	prefix := t.TempDir()
	for _, f := range []string{"include/foo.h", "lib/libfoo.a"} {
		p := filepath.Join(prefix, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := t.TempDir()

	if _, err := execute(t, "scan", "-C", out, "--os", "Linux", "--arch", "x86_64", "--build-type", "Release", "foo/1.0="+prefix); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, xmake.Filename))
	if err != nil {
		t.Fatal(err)
	}
	want := xmake.Render(xmake.Section{
		Triple: xmake.Triple{Plat: "Linux", Arch: "x86_64", Mode: "Release"},
		Fields: xmake.NewFields(buildinfo.Info{
			IncludeDirs: []string{filepath.Join(prefix, "include")},
			LibDirs:     []string{filepath.Join(prefix, "lib")},
			Libs:        []string{"foo"},
		}),
	})
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("scan output mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMissingPrefix(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := execute(t, "scan", "--print", "foo/1.0="+missing); err == nil {
		t.Error("scan of a missing prefix returned nil error")
	}
}

func TestVersion(t *testing.T) {
	got, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(got, "xmakegen ") {
		t.Errorf("version output = %q", got)
	}
}
