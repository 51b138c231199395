package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/overlayforge/pkg/cli/prompt"
	"github.com/arthur-debert/overlayforge/pkg/cli/render"
	"github.com/arthur-debert/overlayforge/pkg/config"
	"github.com/arthur-debert/overlayforge/pkg/logging"
	"github.com/arthur-debert/overlayforge/pkg/orchestrator"
	"github.com/arthur-debert/overlayforge/pkg/origin"
	"github.com/arthur-debert/overlayforge/pkg/paths"
	"github.com/arthur-debert/overlayforge/pkg/writer"
)

var (
	newDestFlag   string
	newDryRunFlag bool
)

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <project-name> <template-ref>",
		Short: "Generate a project from a template reference",
		Long: `new fetches the template reference (e.g. "github:owner/repo" or just
"owner/repo"), prompts for any questions it and its activated extend
templates declare, merges overlays with conflict detection, and writes the
resulting project to disk.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&newDestFlag, "dest", "", "Destination directory (default: ./<project-name>)")
	cmd.Flags().BoolVar(&newDryRunFlag, "dry-run", false, "Preview the generated files without writing them")
	return cmd
}

func runNew(cmd *cobra.Command, projectName, templateRef string) error {
	logger := logging.GetLogger("cmd.new")

	p := paths.New()
	if err := p.EnsureDirs(); err != nil {
		return fmt.Errorf("prepare app directories: %w", err)
	}

	configPath := p.ConfigFile()
	if configFlag != "" {
		configPath = configFlag
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	colorPref := colorFlag
	if !cmd.Flags().Changed("color") {
		colorPref = cfg.Color
	}
	format := render.Resolve(render.ParseFormat(colorPref), os.Stdout)

	fetcher := origin.NewFetcher()
	fetcher.DefaultOrigin = cfg.DefaultOrigin
	fetcher.Client.Timeout = cfg.Timeout
	if cfg.CacheArchives {
		fetcher.Cache = origin.NewFileCache(p.ArchiveCachePath)
	}

	dest := newDestFlag
	if dest == "" {
		dest = projectName
	}

	logger.Info().Str("template", templateRef).Str("dest", dest).Bool("dryRun", newDryRunFlag).Msg("starting generation")

	result, err := orchestrator.Run(cmd.Context(), projectName, templateRef, orchestrator.Config{
		Fetcher:          fetcher,
		GetTemplateProps: prompt.GetTemplateProps,
		ConflictSolver:   prompt.Solver(format),
		OnMessage: func(text string) {
			log.Info().Msg(text)
		},
	})
	if err != nil {
		return fmt.Errorf("generate project: %w", err)
	}

	if len(result.Conflicts) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "unresolved conflicts:")
		for _, pathname := range result.Conflicts {
			fmt.Fprintln(cmd.OutOrStdout(), render.Conflict(pathname, result.Files[pathname].Text, format))
		}
	}

	w := writer.New(dest, newDryRunFlag)
	if err := w.Write(context.Background(), result); err != nil {
		return fmt.Errorf("write project: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Markdown(summarize(projectName, templateRef, dest, result), format))
	return nil
}

// summarize builds a short markdown report of a generation run: the
// template and destination, the files written, and any unresolved
// conflicts left for the user to settle by hand.
func summarize(projectName, templateRef, dest string, result orchestrator.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", projectName)
	fmt.Fprintf(&b, "Generated from `%s` into `%s`.\n\n", templateRef, dest)
	fmt.Fprintf(&b, "- **files written:** %d\n", len(result.Files))
	fmt.Fprintf(&b, "- **conflicts:** %d\n", len(result.Conflicts))

	if len(result.Conflicts) > 0 {
		conflicts := append([]string(nil), result.Conflicts...)
		sort.Strings(conflicts)
		b.WriteString("\n## Unresolved conflicts\n\n")
		for _, pathname := range conflicts {
			fmt.Fprintf(&b, "- `%s`\n", pathname)
		}
	}

	return b.String()
}
