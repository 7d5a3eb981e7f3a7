package buildinfo

import (
	"fmt"

	"github.com/goplus/xmakegen/pkgs/mod/module"
)

// Dependency is one resolved requirement as handed over by the host.
type Dependency struct {
	Ref           module.Version
	PackageFolder string // install folder that relative dirs are resolved against
	CppInfo       CppInfo
}

// Aggregate returns the dependency's build metadata rebased onto its package
// folder and flattened across components.
func (d Dependency) Aggregate() (Info, error) {
	info, err := d.CppInfo.Rebase(d.PackageFolder).Aggregated()
	if err != nil {
		return Info{}, fmt.Errorf("aggregate %s: %w", d.Ref, err)
	}
	return info, nil
}

// Dependencies groups requirements by the context they were required in.
type Dependencies struct {
	Host  []Dependency
	Test  []Dependency
	Build []Dependency
}

// All returns host, test and build requirements concatenated in that order.
func (d Dependencies) All() []Dependency {
	all := make([]Dependency, 0, len(d.Host)+len(d.Test)+len(d.Build))
	all = append(all, d.Host...)
	all = append(all, d.Test...)
	return append(all, d.Build...)
}

// Aggregate merges the aggregate of every dependency, in All order.
func (d Dependencies) Aggregate() (Info, error) {
	var result Info
	for _, dep := range d.All() {
		info, err := dep.Aggregate()
		if err != nil {
			return Info{}, err
		}
		result.Merge(info)
	}
	return result, nil
}
