// Package orchestrator implements the Orchestrator: the pipeline that
// drives every other component from a template reference to a finished
// {files, conflicts} result.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/overlayforge/pkg/answers"
	"github.com/arthur-debert/overlayforge/pkg/archive"
	"github.com/arthur-debert/overlayforge/pkg/cleanup"
	"github.com/arthur-debert/overlayforge/pkg/diff"
	"github.com/arthur-debert/overlayforge/pkg/errors"
	"github.com/arthur-debert/overlayforge/pkg/globmatch"
	"github.com/arthur-debert/overlayforge/pkg/merge"
	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/mergetable"
	"github.com/arthur-debert/overlayforge/pkg/origin"
	"github.com/arthur-debert/overlayforge/pkg/render"
	"github.com/arthur-debert/overlayforge/pkg/resolver"
	"github.com/arthur-debert/overlayforge/pkg/tplconfig"
	"github.com/arthur-debert/overlayforge/pkg/vtree"
)

// MainLabel is the always-first entry in the template props list.
const MainLabel = "main"

// ExtendLabelPrefix prefixes every activated extend template's label.
const ExtendLabelPrefix = "extend:"

// File is one emitted result entry: either rendered text or raw binary
// bytes, never both.
type File struct {
	Binary bool
	Text   string
	Data   []byte
}

// Result is the Orchestrator's public output.
type Result struct {
	Files     map[string]File
	Conflicts []string
}

// Config carries every external callback and option the pipeline consults.
type Config struct {
	// Fetcher resolves template references to archive bytes. Defaults to
	// origin.NewFetcher() when nil.
	Fetcher *origin.Fetcher

	// GetTemplateProps prompts for answers to a label's questions. Required
	// whenever a template declares at least one question; a nil func with
	// non-empty questions is an error.
	GetTemplateProps func(label string, questions []tplconfig.Question) (map[string]string, error)

	// ConflictSolver resolves CONFLICT blocks. A nil solver leaves every
	// conflict unresolved.
	ConflictSolver resolver.ConflictSolver

	// Cleanups maps a cleanup name (as declared in TemplateConfig.Cleanups)
	// to its Go implementation. Names with no registered entry are skipped.
	Cleanups map[string]cleanup.Callback

	// OnMessage reports pipeline progress. Defaults to a no-op.
	OnMessage func(text string)
}

func (c Config) onMessage(text string) {
	if c.OnMessage != nil {
		c.OnMessage(text)
	}
}

type propsEntry struct {
	label string
	props map[string]string
}

// Run executes the full pipeline described by the package doc, returning
// the emitted files and the set of pathnames still carrying a conflict.
func Run(ctx context.Context, projectName, templateReference string, cfg Config) (Result, error) {
	// 1. Validate.
	if strings.TrimSpace(projectName) == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "projectName must be non-empty")
	}
	if strings.TrimSpace(templateReference) == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "templateReference must be non-empty")
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = origin.NewFetcher()
	}

	tree := vtree.New()

	// 2. Resolve origin, fetch, decompress into /template/main/.
	cfg.onMessage(fmt.Sprintf("fetching %s", templateReference))
	mainArchive, err := fetcher.Fetch(ctx, templateReference)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrLoaderFailure, "fetch main template")
	}
	if len(mainArchive) == 0 {
		return Result{}, errors.New(errors.ErrArchiveEmpty, "main template archive is empty")
	}
	if err := archive.Extract(mainArchive, tree, vtree.MainPrefix); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrArchiveExtract, "extract main template")
	}

	// 3. Parse template config.
	mainConfig, err := tplconfig.Load(tree, vtree.MainPrefix)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrTemplateFailure, "parse main template config")
	}

	// 4. Enumerate templates.
	answers.Reset()
	var propsEntries []propsEntry
	activated := make(map[string]tplconfig.ExtendConfig)
	activatedOrder := []string{}
	pending := []string{MainLabel}

	for len(pending) > 0 {
		label := pending[0]
		pending = pending[1:]

		questions := questionsForLabel(label, mainConfig, activated)

		var raw map[string]string
		if len(questions) > 0 {
			if cfg.GetTemplateProps == nil {
				return Result{}, errors.New(errors.ErrContextInvalid, "template declares questions but no GetTemplateProps was configured")
			}
			cfg.onMessage(fmt.Sprintf("collecting answers for %s", label))
			raw, err = cfg.GetTemplateProps(label, questions)
			if err != nil {
				return Result{}, errors.Wrap(err, errors.ErrContextInvalid, "collect answers")
			}
		}

		parsed := answers.Parse(raw)
		propsEntries = append(propsEntries, propsEntry{label: label, props: parsed.Props})

		for _, id := range parsed.PendingExtendTemplateLabels {
			if _, exists := activated[id]; exists {
				continue
			}
			extConfig, err := activateExtend(ctx, fetcher, tree, id, &mainConfig)
			if err != nil {
				return Result{}, err
			}
			activated[id] = extConfig
			activatedOrder = append(activatedOrder, id)
			pending = append(pending, ExtendLabelPrefix+id)
		}
	}

	// 5. Build GlobMatcher from main + activated extends.
	policies := []globmatch.Policy{{Merge: mainConfig.Files.Merge, Delete: mainConfig.Files.Delete}}
	for _, id := range activatedOrder {
		ext := activated[id]
		policies = append(policies, globmatch.Policy{Merge: ext.Files.Merge, Delete: ext.Files.Delete})
	}
	matcher, err := globmatch.New(policies...)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrContextInvalid, "compile glob policy")
	}

	mainProps := propsFor(propsEntries, MainLabel)

	// 6. Render & diff.
	cache := newCacheTable()
	binaries := mergetable.BinaryTable{}

	renderOrder := append([]string{MainLabel}, prefixAll(activatedOrder)...)
	for _, label := range renderOrder {
		root, err := rootForLabel(label)
		if err != nil {
			return Result{}, err
		}

		entities, err := tree.Walk(root)
		if err != nil {
			return Result{}, errors.Wrap(err, errors.ErrContextInvalid, "walk "+root)
		}

		currentProps := propsFor(propsEntries, label)
		renderProps := render.MergeProps(mainProps, currentProps)

		for _, entity := range entities {
			if entity.IsDirectory {
				continue
			}

			relPath := entity.RelativeDirectoryPath
			if relPath != "" {
				relPath += "/"
			}
			relPath += entity.Name

			content, err := tree.ReadFile(entity.AbsolutePath)
			if err != nil {
				return Result{}, errors.Wrap(err, errors.ErrContextInvalid, "read "+entity.AbsolutePath)
			}

			if entity.IsBinary {
				pathname := strings.TrimSuffix(relPath, entity.Name) + render.StripMarker(entity.Name)
				binaries[pathname] = content
				continue
			}

			text := string(content)
			pathname := relPath
			if render.IsTemplateFile(entity.Name) {
				rendered, err := render.Render(text, renderProps)
				if err != nil {
					return Result{}, errors.Wrap(err, errors.ErrRenderFailure, "render "+relPath)
				}
				text = rendered
				pathname = strings.TrimSuffix(relPath, entity.Name) + render.StripMarker(entity.Name)
			}

			var cl diff.ChangeList
			if !cache.has(pathname) {
				cl = diff.Diff(text)
			} else {
				baseline := cache.baselineText(pathname)
				cl = diff.Diff(baseline, text)
			}
			cache.append(pathname, cl)
		}
	}

	// 7. Delete.
	for _, pathname := range append([]string(nil), cache.order...) {
		if matcher.Match(pathname, globmatch.Delete) {
			cache.delete(pathname)
		}
	}
	for pathname := range binaries {
		if matcher.Match(pathname, globmatch.Delete) {
			delete(binaries, pathname)
		}
	}

	// 8. Merge.
	table := mergetable.New()
	for _, pathname := range cache.order {
		changeLists := cache.entries[pathname]
		if len(changeLists) == 0 {
			continue
		}

		var blocks mergeblock.Blocks
		if matcher.Match(pathname, globmatch.Merge) {
			if len(changeLists) == 1 {
				blocks = mergeblock.ToBlocks(changeLists[0])
			} else {
				merged := merge.Merge(changeLists[0], changeLists[1:])
				blocks = mergeblock.ToBlocks(merged)
			}
		} else {
			blocks = mergeblock.ToBlocks(changeLists[len(changeLists)-1])
		}
		table.Set(pathname, blocks)
	}

	// 9. Resolve conflicts.
	cfg.onMessage("resolving conflicts")
	if err := resolver.Solve(ctx, table, cfg.ConflictSolver); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrConflictUnresolved, "resolve conflicts")
	}

	// 10. Run cleanups.
	callbacks := collectCleanups(mainConfig, activated, activatedOrder, cfg.Cleanups)
	table, binaries, err = cleanup.Run(table, binaries, callbacks)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrContextInvalid, "run cleanups")
	}

	// 11. Emit.
	files := make(map[string]File, table.Len()+len(binaries))
	var conflicts []string
	for _, pathname := range table.Pathnames() {
		blocks, _ := table.Get(pathname)
		files[pathname] = File{Text: mergeblock.ToText(blocks)}
		if mergeblock.HasConflictBlock(blocks) {
			conflicts = append(conflicts, pathname)
		}
	}
	for pathname, data := range binaries {
		files[pathname] = File{Binary: true, Data: data}
	}

	return Result{Files: files, Conflicts: conflicts}, nil
}

func questionsForLabel(label string, mainConfig tplconfig.Config, activated map[string]tplconfig.ExtendConfig) []tplconfig.Question {
	if label == MainLabel {
		return mainConfig.Questions
	}
	id := strings.TrimPrefix(label, ExtendLabelPrefix)
	return activated[id].Questions
}

func activateExtend(ctx context.Context, fetcher *origin.Fetcher, tree *vtree.Tree, id string, mainConfig *tplconfig.Config) (tplconfig.ExtendConfig, error) {
	declared, ok := mainConfig.ExtendTemplates[id]
	if !ok {
		declared = tplconfig.ExtendConfig{}
	}

	data, err := fetcher.Fetch(ctx, id)
	if err != nil {
		return tplconfig.ExtendConfig{}, errors.Wrap(err, errors.ErrLoaderFailure, "fetch extend "+id)
	}
	if err := archive.Extract(data, tree, vtree.ExtendPrefix(id)); err != nil {
		return tplconfig.ExtendConfig{}, errors.Wrap(err, errors.ErrArchiveExtract, "extract extend "+id)
	}
	return declared, nil
}

func propsFor(entries []propsEntry, label string) map[string]string {
	for _, e := range entries {
		if e.label == label {
			return e.props
		}
	}
	return nil
}

func prefixAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ExtendLabelPrefix + id
	}
	return out
}

func rootForLabel(label string) (string, error) {
	if label == MainLabel {
		return vtree.MainPrefix, nil
	}
	id := strings.TrimPrefix(label, ExtendLabelPrefix)
	if id == label {
		return "", errors.New(errors.ErrContextInvalid, "malformed label "+label)
	}
	return vtree.ExtendPrefix(id), nil
}

func collectCleanups(mainConfig tplconfig.Config, activated map[string]tplconfig.ExtendConfig, activatedOrder []string, registry map[string]cleanup.Callback) []cleanup.Callback {
	var names []string
	names = append(names, mainConfig.Cleanups...)
	for _, id := range activatedOrder {
		names = append(names, activated[id].Cleanups...)
	}

	var callbacks []cleanup.Callback
	for _, name := range names {
		if cb, ok := registry[name]; ok {
			callbacks = append(callbacks, cb)
		}
	}
	return callbacks
}
