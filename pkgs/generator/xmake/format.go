package xmake

import (
	"strings"

	"github.com/goplus/xmakegen/pkgs/buildinfo"
)

const (
	pathSep = "\",\n\""
	itemSep = "\", \""
)

// Fields is the rendered form of every list of a buildinfo.Info, ready to be
// placed between the braces of an xmake table.
type Fields struct {
	IncludeDirs   string
	LibDirs       string
	BinDirs       string
	ResDirs       string
	SrcDirs       string
	FrameworkDirs string

	Libs            string
	Frameworks      string
	SystemLibs      string
	Defines         string
	CXXFlags        string
	CFlags          string
	SharedLinkFlags string
	ExeLinkFlags    string
}

// NewFields renders info. Directory entries get forward slashes and one
// entry per line; every other list stays on one line. Double quotes are
// escaped everywhere. Nil lists render as empty strings.
func NewFields(info buildinfo.Info) Fields {
	return Fields{
		IncludeDirs:   paths(info.IncludeDirs),
		LibDirs:       paths(info.LibDirs),
		BinDirs:       paths(info.BinDirs),
		ResDirs:       paths(info.ResDirs),
		SrcDirs:       paths(info.SrcDirs),
		FrameworkDirs: paths(info.FrameworkDirs),

		Libs:            items(info.Libs),
		Frameworks:      items(info.Frameworks),
		SystemLibs:      items(info.SystemLibs),
		Defines:         items(info.Defines),
		CXXFlags:        items(info.CXXFlags),
		CFlags:          items(info.CFlags),
		SharedLinkFlags: items(info.SharedLinkFlags),
		ExeLinkFlags:    items(info.ExeLinkFlags),
	}
}

func paths(list []string) string {
	out := make([]string, len(list))
	for n, p := range list {
		out[n] = strings.ReplaceAll(p, `\`, "/")
	}
	return quote(out, pathSep)
}

func items(list []string) string {
	return quote(list, itemSep)
}

// quote escapes and double-quotes each element, joined by sep.
func quote(list []string, sep string) string {
	if len(list) == 0 {
		return ""
	}
	esc := make([]string, len(list))
	for n, s := range list {
		esc[n] = escape(s)
	}
	return `"` + strings.Join(esc, sep) + `"`
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
