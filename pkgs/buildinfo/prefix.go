package buildinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FromPrefix derives build metadata from a package installed at root with
// the usual include/, lib/, bin/ layout. Directories are recorded only if
// they exist. Library names come from the files in lib/, and every
// lib/pkgconfig/*.pc file found is merged in as well.
func FromPrefix(root string) (Info, error) {
	if _, err := os.Stat(root); err != nil {
		return Info{}, err
	}
	var info Info

	for _, d := range []struct {
		name string
		list *[]string
	}{
		{"include", &info.IncludeDirs},
		{"lib", &info.LibDirs},
		{"bin", &info.BinDirs},
		{"res", &info.ResDirs},
		{"src", &info.SrcDirs},
		{"Frameworks", &info.FrameworkDirs},
	} {
		dir := filepath.Join(root, d.name)
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			*d.list = append(*d.list, dir)
		}
	}

	if len(info.LibDirs) == 0 {
		return info, nil
	}
	libDir := info.LibDirs[0]

	libs, err := scanLibs(libDir)
	if err != nil {
		return Info{}, err
	}
	info.Libs = libs

	pcDir := filepath.Join(libDir, "pkgconfig")
	entries, err := os.ReadDir(pcDir)
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return Info{}, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pc") {
			continue
		}
		pc, err := LoadPkgConfig(filepath.Join(pcDir, entry.Name()))
		if err != nil {
			return Info{}, err
		}
		pcInfo, err := pc.Info()
		if err != nil {
			return Info{}, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		info.Merge(pcInfo)
	}
	return info, nil
}

// scanLibs returns the sorted, deduplicated library names found in dir.
func scanLibs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var libs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := libName(entry.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		libs = append(libs, name)
	}
	sort.Strings(libs)
	return libs, nil
}

// libName maps a library file name to the name passed to the linker:
// libfoo.a, libfoo.so.1.2, libfoo.1.dylib and foo.lib all yield "foo".
func libName(file string) (string, bool) {
	if name, ok := strings.CutSuffix(file, ".lib"); ok {
		return name, name != ""
	}
	base, ok := strings.CutPrefix(file, "lib")
	if !ok {
		return "", false
	}
	switch {
	case strings.HasSuffix(base, ".a"):
		base = strings.TrimSuffix(base, ".a")
		base = strings.TrimSuffix(base, ".dll")
	case strings.HasSuffix(base, ".dylib"):
		base = trimVersion(strings.TrimSuffix(base, ".dylib"))
	default:
		n := strings.LastIndex(base, ".so")
		if n < 0 || !isVersion(base[n+len(".so"):]) {
			return "", false
		}
		base = base[:n]
	}
	return base, base != ""
}

// isVersion reports whether s is empty or a ".1.2.3" style suffix.
func isVersion(s string) bool {
	if s == "" {
		return true
	}
	if s[0] != '.' || len(s) == 1 {
		return false
	}
	for _, r := range s[1:] {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// trimVersion drops trailing ".N" segments.
func trimVersion(s string) string {
	for {
		n := strings.LastIndex(s, ".")
		if n < 0 || !isVersion(s[n:]) {
			return s
		}
		s = s[:n]
	}
}
