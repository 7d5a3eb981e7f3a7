package buildinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
)

// PkgConfig is a parsed pkg-config (.pc) file.
type PkgConfig struct {
	Name     string
	Version  string
	Requires string
	Cflags   string
	Libs     string

	Vars     map[string]string
	Keywords map[string]string
}

// LoadPkgConfig parses the .pc file at path. The pcfiledir variable is preset
// to the file's directory.
func LoadPkgConfig(path string) (*PkgConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pc, err := parsePkgConfig(f, map[string]string{"pcfiledir": filepath.Dir(path)})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pc, nil
}

// ParsePkgConfig parses a .pc file from r.
func ParsePkgConfig(r io.Reader) (*PkgConfig, error) {
	return parsePkgConfig(r, nil)
}

func parsePkgConfig(r io.Reader, preset map[string]string) (*PkgConfig, error) {
	pc := &PkgConfig{
		Vars:     make(map[string]string),
		Keywords: make(map[string]string),
	}
	for k, v := range preset {
		pc.Vars[k] = v
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	var pending string
	for scanner.Scan() {
		lineno++
		line := pending + scanner.Text()
		pending = ""
		if strings.HasSuffix(line, `\`) {
			pending = strings.TrimSuffix(line, `\`)
			continue
		}
		if n := strings.IndexByte(line, '#'); n >= 0 {
			line = line[:n]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, sep, value := splitPkgConfigLine(line)
		if key == "" {
			return nil, fmt.Errorf("line %d: malformed %q", lineno, line)
		}
		expanded, err := pc.expand(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		switch sep {
		case '=':
			pc.Vars[key] = expanded
		case ':':
			pc.Keywords[key] = expanded
			switch key {
			case "Name":
				pc.Name = expanded
			case "Version":
				pc.Version = expanded
			case "Requires":
				pc.Requires = expanded
			case "Cflags", "CFlags":
				pc.Cflags = expanded
			case "Libs":
				pc.Libs = expanded
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pc, nil
}

// splitPkgConfigLine splits "key=value" or "Key: value".
func splitPkgConfigLine(line string) (key string, sep byte, value string) {
	n := 0
	for n < len(line) && isIdentChar(line[n]) {
		n++
	}
	key = line[:n]
	rest := strings.TrimLeft(line[n:], " \t")
	if rest == "" || (rest[0] != '=' && rest[0] != ':') {
		return "", 0, ""
	}
	return key, rest[0], strings.TrimSpace(rest[1:])
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// expand substitutes ${var} references; "$$" yields a literal "$".
func (pc *PkgConfig) expand(s string) (string, error) {
	var b strings.Builder
	for {
		n := strings.IndexByte(s, '$')
		if n < 0 || n == len(s)-1 {
			b.WriteString(s)
			return b.String(), nil
		}
		b.WriteString(s[:n])
		switch s[n+1] {
		case '$':
			b.WriteByte('$')
			s = s[n+2:]
		case '{':
			end := strings.IndexByte(s[n:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated variable reference in %q", s)
			}
			name := s[n+2 : n+end]
			v, ok := pc.Vars[name]
			if !ok {
				return "", fmt.Errorf("undefined variable %q", name)
			}
			b.WriteString(v)
			s = s[n+end+1:]
		default:
			b.WriteByte('$')
			s = s[n+1:]
		}
	}
}

// Info converts the Cflags and Libs of pc into build metadata.
func (pc *PkgConfig) Info() (Info, error) {
	var info Info

	cflags, err := shellwords.Parse(pc.Cflags)
	if err != nil {
		return Info{}, fmt.Errorf("cflags: %w", err)
	}
	for n := 0; n < len(cflags); n++ {
		arg := cflags[n]
		switch {
		case arg == "-I" || arg == "-isystem":
			if n+1 < len(cflags) {
				n++
				info.IncludeDirs = union(info.IncludeDirs, []string{filepath.Clean(cflags[n])})
			}
		case strings.HasPrefix(arg, "-I"):
			info.IncludeDirs = union(info.IncludeDirs, []string{filepath.Clean(arg[2:])})
		case strings.HasPrefix(arg, "-D") && len(arg) > 2:
			info.Defines = union(info.Defines, []string{arg[2:]})
		default:
			info.CFlags = union(info.CFlags, []string{arg})
			info.CXXFlags = union(info.CXXFlags, []string{arg})
		}
	}

	libs, err := shellwords.Parse(pc.Libs)
	if err != nil {
		return Info{}, fmt.Errorf("libs: %w", err)
	}
	for n := 0; n < len(libs); n++ {
		arg := libs[n]
		switch {
		case arg == "-L" && n+1 < len(libs):
			n++
			info.LibDirs = union(info.LibDirs, []string{filepath.Clean(libs[n])})
		case strings.HasPrefix(arg, "-L") && len(arg) > 2:
			info.LibDirs = union(info.LibDirs, []string{filepath.Clean(arg[2:])})
		case strings.HasPrefix(arg, "-l") && len(arg) > 2:
			info.Libs = union(info.Libs, []string{arg[2:]})
		case arg == "-framework" && n+1 < len(libs):
			n++
			info.Frameworks = union(info.Frameworks, []string{libs[n]})
		case strings.HasPrefix(arg, "-F") && len(arg) > 2:
			info.FrameworkDirs = union(info.FrameworkDirs, []string{filepath.Clean(arg[2:])})
		default:
			info.SharedLinkFlags = union(info.SharedLinkFlags, []string{arg})
			info.ExeLinkFlags = union(info.ExeLinkFlags, []string{arg})
		}
	}
	return info, nil
}
