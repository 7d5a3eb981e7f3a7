package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goplus/xmakegen/internal/env"
	"github.com/goplus/xmakegen/internal/logging/logfields"
	"github.com/goplus/xmakegen/internal/manifest"
	"github.com/goplus/xmakegen/pkgs/generator"
	"github.com/goplus/xmakegen/pkgs/generator/xmake"
)

var (
	generateManifest string
	generateDir      string
	generatePrint    bool
	generateSettings env.Settings
)

var generateCmd = &cobra.Command{
	Use:   "generate -f manifest",
	Short: "Generate conanbuildinfo.xmake.lua from a manifest",
	Long: `Generate reads a resolved dependency graph (.json, .yaml, .toml or .hcl)
and writes one xmake section per configuration it holds.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateManifest, "file", "f", "", "Manifest file")
	generateCmd.Flags().StringVarP(&generateDir, "dir", "C", "", "Output directory (default: config output_dir or current directory)")
	generateCmd.Flags().BoolVar(&generatePrint, "print", false, "Print to stdout instead of writing the file")
	addSettingsFlags(generateCmd.Flags(), &generateSettings)
	generateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(generateCmd)
}

func addSettingsFlags(flags *pflag.FlagSet, s *env.Settings) {
	flags.StringVar(&s.OS, "os", "", "Target OS, e.g. Linux")
	flags.StringVar(&s.Arch, "arch", "", "Target architecture, e.g. x86_64")
	flags.StringVar(&s.BuildType, "build-type", "", "Build type, e.g. Release")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	m, err := manifest.Parse(generateManifest, nil)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid manifest %s: %w", generateManifest, err)
	}

	g := xmake.New()
	if err := addConfigurations(g, m, generateSettings, cfg.Settings); err != nil {
		return err
	}
	return emit(cmd.OutOrStdout(), g, outputDir(generateDir), generatePrint)
}

// addConfigurations adds one section per configuration of m. Settings are
// taken from override first, then the configuration, then fallback, then
// the environment.
func addConfigurations(g *xmake.Generator, m *manifest.Manifest, override, fallback env.Settings) error {
	def := env.Default()
	for n := range m.Configurations {
		c := &m.Configurations[n]
		s := override.Or(c.Settings).Or(fallback).Or(def)
		if !s.Complete() {
			return fmt.Errorf("configuration %d: incomplete settings %+v", n, s)
		}
		deps, err := c.Dependencies()
		if err != nil {
			return err
		}
		if err := g.AddDependencies(tripleOf(s), deps); err != nil {
			return err
		}
	}
	return nil
}

func tripleOf(s env.Settings) xmake.Triple {
	return xmake.Triple{Plat: s.OS, Arch: s.Arch, Mode: s.BuildType}
}

func outputDir(dir string) string {
	if dir != "" {
		return dir
	}
	return cfg.OutputDir
}

// emit prints g to w or writes it into dir.
func emit(w io.Writer, g generator.Generator, dir string, toStdout bool) error {
	if toStdout {
		return g.Generate(w)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path, err := generator.WriteFile(g, dir)
	if err != nil {
		return err
	}
	log.WithField(logfields.File, path).Info("Wrote build info")
	return nil
}
