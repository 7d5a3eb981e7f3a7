// Package xmake generates conanbuildinfo.xmake.lua, the build-info table the
// xmake build tool loads to pick up dependency include dirs, libraries and
// flags.
package xmake

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goplus/xmakegen/internal/logging"
	"github.com/goplus/xmakegen/internal/logging/logfields"
	"github.com/goplus/xmakegen/pkgs/buildinfo"
	"github.com/goplus/xmakegen/pkgs/generator"
)

// Filename is the name of the generated file.
const Filename = "conanbuildinfo.xmake.lua"

// sectionFormat renders one section. The label line ends with a space.
const sectionFormat = "  %s = \n" +
	"  {\n" +
	"    includedirs    = {%s},\n" +
	"    linkdirs       = {%s},\n" +
	"    links          = {%s},\n" +
	"    frameworkdirs  = {%s},\n" +
	"    frameworks     = {%s},\n" +
	"    syslinks       = {%s},\n" +
	"    defines        = {%s},\n" +
	"    cxxflags       = {%s},\n" +
	"    cflags         = {%s},\n" +
	"    shflags        = {%s},\n" +
	"    ldflags        = {%s},\n" +
	"    __bindirs      = {%s},\n" +
	"    __resdirs      = {%s},\n" +
	"    __srcdirs      = {%s}\n" +
	"  }"

// Triple identifies the build a section applies to.
type Triple struct {
	Plat string // e.g. "Linux"
	Arch string // e.g. "x86_64"
	Mode string // e.g. "Release"
}

// Key returns the section label "<Plat>_<Arch>_<Mode>". Characters that may
// not appear in an identifier are replaced with '_'.
func (t Triple) Key() string {
	key := []byte(t.Plat + "_" + t.Arch + "_" + t.Mode)
	for n, c := range key {
		if !isIdent(c) {
			key[n] = '_'
		}
	}
	if len(key) > 0 && '0' <= key[0] && key[0] <= '9' {
		return "_" + string(key)
	}
	return string(key)
}

func (t Triple) String() string {
	return t.Plat + "/" + t.Arch + "/" + t.Mode
}

func isIdent(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Section is one labeled table of the generated document.
type Section struct {
	Triple Triple
	Fields Fields
}

func (s Section) String() string {
	f := s.Fields
	return fmt.Sprintf(sectionFormat, s.Triple.Key(),
		f.IncludeDirs, f.LibDirs, f.Libs, f.FrameworkDirs, f.Frameworks,
		f.SystemLibs, f.Defines, f.CXXFlags, f.CFlags, f.SharedLinkFlags,
		f.ExeLinkFlags, f.BinDirs, f.ResDirs, f.SrcDirs)
}

// Render returns the document holding sections, in order.
func Render(sections ...Section) string {
	parts := make([]string, len(sections))
	for n, s := range sections {
		parts[n] = s.String()
	}
	return "{\n" + strings.Join(parts, ",\n") + "\n}"
}

// -----------------------------------------------------------------------------

// Generator collects sections and writes them as conanbuildinfo.xmake.lua.
type Generator struct {
	log      logrus.FieldLogger
	sections []Section
}

var _ generator.Generator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger routes diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// New creates an empty Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logging.DefaultLogger.WithField(logfields.LogSubsys, "xmake")
	}
	return g
}

// Add appends a section built from info.
func (g *Generator) Add(t Triple, info buildinfo.Info) {
	g.sections = append(g.sections, Section{Triple: t, Fields: NewFields(info)})
}

// AddDependencies appends one section holding the merged aggregate of deps.
func (g *Generator) AddDependencies(t Triple, deps buildinfo.Dependencies) error {
	var merged buildinfo.Info
	for _, dep := range deps.All() {
		info, err := dep.Aggregate()
		if err != nil {
			return err
		}
		g.log.WithFields(logrus.Fields{
			logfields.Ref:    dep.Ref.String(),
			logfields.Triple: t.String(),
		}).Debugf("dep_aggregate %+v", info)
		merged.Merge(info)
	}
	g.Add(t, merged)
	return nil
}

// Sections returns the sections added so far.
func (g *Generator) Sections() []Section {
	return g.sections
}

// Filename implements generator.Generator.
func (g *Generator) Filename() string {
	return Filename
}

// Content returns the rendered document.
func (g *Generator) Content() string {
	return Render(g.sections...)
}

// Generate implements generator.Generator.
func (g *Generator) Generate(w io.Writer) error {
	g.log.WithField(logfields.Count, len(g.sections)).Info("Generating xmake build info")
	_, err := io.WriteString(w, g.Content())
	return err
}
