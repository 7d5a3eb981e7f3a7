// Package buildinfo models the build metadata a package exports to its
// consumers: include and library directories, libraries, defines and flags.
package buildinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrComponentCycle is returned when components require each other in a loop.
var ErrComponentCycle = errors.New("component requires form a cycle")

// Info holds the build metadata lists of a package or one of its components.
type Info struct {
	IncludeDirs   []string `json:"includedirs,omitempty" yaml:"includedirs,omitempty" toml:"includedirs,omitempty"`
	LibDirs       []string `json:"libdirs,omitempty" yaml:"libdirs,omitempty" toml:"libdirs,omitempty"`
	BinDirs       []string `json:"bindirs,omitempty" yaml:"bindirs,omitempty" toml:"bindirs,omitempty"`
	ResDirs       []string `json:"resdirs,omitempty" yaml:"resdirs,omitempty" toml:"resdirs,omitempty"`
	SrcDirs       []string `json:"srcdirs,omitempty" yaml:"srcdirs,omitempty" toml:"srcdirs,omitempty"`
	FrameworkDirs []string `json:"frameworkdirs,omitempty" yaml:"frameworkdirs,omitempty" toml:"frameworkdirs,omitempty"`

	Libs            []string `json:"libs,omitempty" yaml:"libs,omitempty" toml:"libs,omitempty"`
	Frameworks      []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty" toml:"frameworks,omitempty"`
	SystemLibs      []string `json:"system_libs,omitempty" yaml:"system_libs,omitempty" toml:"system_libs,omitempty"`
	Defines         []string `json:"defines,omitempty" yaml:"defines,omitempty" toml:"defines,omitempty"`
	CXXFlags        []string `json:"cxxflags,omitempty" yaml:"cxxflags,omitempty" toml:"cxxflags,omitempty"`
	CFlags          []string `json:"cflags,omitempty" yaml:"cflags,omitempty" toml:"cflags,omitempty"`
	SharedLinkFlags []string `json:"sharedlinkflags,omitempty" yaml:"sharedlinkflags,omitempty" toml:"sharedlinkflags,omitempty"`
	ExeLinkFlags    []string `json:"exelinkflags,omitempty" yaml:"exelinkflags,omitempty" toml:"exelinkflags,omitempty"`
}

// dirs returns pointers to the directory lists, the ones Rebase touches.
func (i *Info) dirs() []*[]string {
	return []*[]string{
		&i.IncludeDirs, &i.LibDirs, &i.BinDirs,
		&i.ResDirs, &i.SrcDirs, &i.FrameworkDirs,
	}
}

func (i *Info) lists() []*[]string {
	return append(i.dirs(),
		&i.Libs, &i.Frameworks, &i.SystemLibs, &i.Defines,
		&i.CXXFlags, &i.CFlags, &i.SharedLinkFlags, &i.ExeLinkFlags,
	)
}

// Copy returns a deep copy of i.
func (i Info) Copy() Info {
	out := i
	for _, l := range out.lists() {
		*l = slices.Clone(*l)
	}
	return out
}

// Rebase returns a copy of i whose relative directories are joined onto folder.
// Absolute directories are kept as is. An empty folder leaves i unchanged.
func (i Info) Rebase(folder string) Info {
	out := i.Copy()
	if folder == "" {
		return out
	}
	for _, l := range out.dirs() {
		for n, dir := range *l {
			if !isAbs(dir) {
				(*l)[n] = filepath.Join(folder, dir)
			}
		}
	}
	return out
}

// Merge appends every entry of other that i does not already hold.
// Order of first occurrence is preserved.
func (i *Info) Merge(other Info) {
	dst, src := i.lists(), other.lists()
	for n := range dst {
		*dst[n] = union(*dst[n], *src[n])
	}
}

// Empty reports whether i carries no metadata at all.
func (i Info) Empty() bool {
	for _, l := range i.lists() {
		if len(*l) != 0 {
			return false
		}
	}
	return true
}

func union(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

// isAbs also recognizes Windows drive and UNC paths on every platform since
// the host may resolve packages for another OS.
func isAbs(p string) bool {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z'))
}

// -----------------------------------------------------------------------------

// Component is a named part of a package (e.g. "ssl" and "crypto" of openssl).
type Component struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
	Info     `yaml:",inline"`
}

// CppInfo is the build metadata a dependency exports: package-level lists plus
// optional components.
type CppInfo struct {
	Info       `yaml:",inline"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty" toml:"components,omitempty"`
}

// Copy returns a deep copy of c.
func (c CppInfo) Copy() CppInfo {
	out := CppInfo{Info: c.Info.Copy()}
	if c.Components != nil {
		out.Components = make([]Component, len(c.Components))
		for n, comp := range c.Components {
			out.Components[n] = Component{
				Name:     comp.Name,
				Requires: slices.Clone(comp.Requires),
				Info:     comp.Info.Copy(),
			}
		}
	}
	return out
}

// Rebase returns a copy of c with the package info and every component
// rebased onto folder.
func (c CppInfo) Rebase(folder string) CppInfo {
	out := c.Copy()
	out.Info = out.Info.Rebase(folder)
	for n := range out.Components {
		out.Components[n].Info = out.Components[n].Info.Rebase(folder)
	}
	return out
}

// Aggregated flattens c into a single Info. Package-level lists come first,
// then components so that each component precedes the components it requires.
func (c CppInfo) Aggregated() (Info, error) {
	result := c.Info.Copy()
	if len(c.Components) == 0 {
		return result, nil
	}
	sorted, err := sortComponents(c.Components)
	if err != nil {
		return Info{}, err
	}
	for n := len(sorted) - 1; n >= 0; n-- {
		result.Merge(sorted[n].Info)
	}
	return result, nil
}

// sortComponents orders components so that requirements come first.
// Ties keep declaration order. Requires naming other packages ("pkg::comp")
// or unknown components are ignored.
func sortComponents(comps []Component) ([]Component, error) {
	index := make(map[string]int, len(comps))
	for n, comp := range comps {
		index[comp.Name] = n
	}
	placed := make([]bool, len(comps))
	sorted := make([]Component, 0, len(comps))

	ready := func(comp Component) bool {
		for _, req := range comp.Requires {
			if strings.Contains(req, "::") || req == comp.Name {
				continue
			}
			if n, ok := index[req]; ok && !placed[n] {
				return false
			}
		}
		return true
	}

	for len(sorted) < len(comps) {
		progress := false
		for n, comp := range comps {
			if placed[n] || !ready(comp) {
				continue
			}
			placed[n] = true
			sorted = append(sorted, comp)
			progress = true
			break
		}
		if !progress {
			var left []string
			for n, comp := range comps {
				if !placed[n] {
					left = append(left, comp.Name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrComponentCycle, strings.Join(left, ", "))
		}
	}
	return sorted, nil
}
