package internal

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/xmakegen/internal/env"
	"github.com/goplus/xmakegen/internal/logging/logfields"
	"github.com/goplus/xmakegen/pkgs/buildinfo"
	"github.com/goplus/xmakegen/pkgs/generator/xmake"
	"github.com/goplus/xmakegen/pkgs/mod/module"
)

var (
	scanDir      string
	scanPrint    bool
	scanSettings env.Settings
)

var scanCmd = &cobra.Command{
	Use:   "scan <ref>=<prefix>...",
	Short: "Generate conanbuildinfo.xmake.lua from install prefixes",
	Long: `Scan derives build info from installed packages (include/, lib/, bin/ and
lib/pkgconfig/*.pc) and writes a single xmake section for the current settings.`,
	Example: `  xmakegen scan zlib/1.3.1=/opt/zlib openssl/3.2.0=/opt/openssl`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanDir, "dir", "C", "", "Output directory (default: config output_dir or current directory)")
	scanCmd.Flags().BoolVar(&scanPrint, "print", false, "Print to stdout instead of writing the file")
	addSettingsFlags(scanCmd.Flags(), &scanSettings)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	deps, err := scanDependencies(args)
	if err != nil {
		return err
	}
	s := scanSettings.Or(cfg.Settings).Or(env.Default())

	g := xmake.New()
	if err := g.AddDependencies(tripleOf(s), deps); err != nil {
		return err
	}
	return emit(cmd.OutOrStdout(), g, outputDir(scanDir), scanPrint)
}

// scanDependencies builds host dependencies from "<ref>=<prefix>" arguments.
func scanDependencies(args []string) (buildinfo.Dependencies, error) {
	var deps buildinfo.Dependencies
	for _, arg := range args {
		ref, prefix, err := parseAssignment(arg)
		if err != nil {
			return deps, err
		}
		if prefix, err = filepath.Abs(prefix); err != nil {
			return deps, err
		}
		info, err := buildinfo.FromPrefix(prefix)
		if err != nil {
			return deps, fmt.Errorf("failed to scan %s: %w", ref, err)
		}
		log.WithField(logfields.Ref, ref.String()).Debugf("Scanned %s", prefix)
		deps.Host = append(deps.Host, buildinfo.Dependency{
			Ref:           ref,
			PackageFolder: prefix,
			CppInfo:       buildinfo.CppInfo{Info: info},
		})
	}
	return deps, nil
}

// parseAssignment parses an argument in the form "name/version=prefix".
func parseAssignment(arg string) (module.Version, string, error) {
	refStr, prefix, ok := strings.Cut(arg, "=")
	if !ok || prefix == "" {
		return module.Version{}, "", fmt.Errorf("invalid argument %q: want <ref>=<prefix>", arg)
	}
	ref, err := module.ParseRef(refStr)
	if err != nil {
		return module.Version{}, "", err
	}
	return ref, prefix, nil
}
