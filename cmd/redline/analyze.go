package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"redline/config"
	"redline/provider"
	"redline/store"
	"redline/text"
	"redline/types"
)

var (
	analyzeDocID string
	analyzeOwner string
	localOnly    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run a full analysis pass over a file or stored document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDocID, "doc", "", "analyze a stored document by ID instead of a file")
	analyzeCmd.Flags().StringVar(&analyzeOwner, "owner", "", "owner whose settings to apply")
	analyzeCmd.Flags().BoolVar(&localOnly, "local-only", false, "skip the remote semantic pass")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content, err := readInput(cfg.Store.Dir, args)
	if err != nil {
		return err
	}

	settings := types.Settings{}
	if analyzeOwner != "" {
		st, err := store.Open(cfg.Store.Dir)
		if err != nil {
			return err
		}
		loaded, err := st.LoadSettings(analyzeOwner)
		if err != nil {
			return err
		}
		settings = *loaded
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	suggestions := runPasses(ctx, cfg, content, settings)
	printSuggestions(content, suggestions)
	return nil
}

func readInput(storeDir string, args []string) (string, error) {
	if analyzeDocID != "" {
		st, err := store.Open(storeDir)
		if err != nil {
			return "", err
		}
		doc, err := st.LoadDocument(analyzeDocID)
		if err != nil {
			return "", fmt.Errorf("loading document %s: %w", analyzeDocID, err)
		}
		return doc.Content, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("a file argument or --doc is required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// runPasses runs the dictionary pass and, unless disabled, the remote
// semantic pass, resolving and merging results the same way the live
// engine does. Provider failures degrade to fewer suggestions; only
// the remote pass reports its error, matching the manual-analysis
// contract.
func runPasses(ctx context.Context, cfg *config.Config, content string, settings types.Settings) []*types.Suggestion {
	var merged []*types.Suggestion

	dict, err := provider.New(provider.TypeDictionary, &types.ProviderConfig{
		AffixURL:    cfg.Dictionary.AffixURL,
		WordListURL: cfg.Dictionary.WordListURL,
	})
	if err == nil {
		merged = collect(ctx, dict, content, settings, merged)
	}

	if !localOnly && cfg.Semantic.URL != "" {
		sem, err := provider.New(provider.TypeSemantic, &types.ProviderConfig{
			URL:            cfg.Semantic.URL,
			APIKey:         cfg.Semantic.APIKey,
			TimeoutMs:      cfg.Semantic.TimeoutMs,
			MaxSuggestions: cfg.Semantic.MaxSuggestions,
		})
		if err == nil {
			result, err := sem.Analyze(ctx, &types.AnalyzeRequest{Text: content, Settings: settings})
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: semantic analysis failed: %v\n", err)
			} else {
				merged = text.Merge(merged, resolve(result.Suggestions, content), content)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Span.Start < merged[j].Span.Start })
	return merged
}

func collect(ctx context.Context, p types.Provider, content string, settings types.Settings, into []*types.Suggestion) []*types.Suggestion {
	result, err := p.Analyze(ctx, &types.AnalyzeRequest{Text: content, Settings: settings})
	if err != nil {
		return into
	}
	return text.Merge(into, resolve(result.Suggestions, content), content)
}

// resolve pins raw provider spans to verbatim text, dropping anything
// unlocatable.
func resolve(raw []*types.Suggestion, content string) []*types.Suggestion {
	var out []*types.Suggestion
	for _, sg := range raw {
		loc := text.Locate(content, sg.Original, sg.Span.Start, sg.Span.End, sg.ContextBefore, sg.ContextAfter)
		if !loc.Found {
			continue
		}
		sg.Span = types.Span{Start: loc.Start, End: loc.End}
		if sg.MatchesText(content) {
			out = append(out, sg)
		}
	}
	return out
}

func printSuggestions(content string, suggestions []*types.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Println("no suggestions")
		return
	}
	for _, sg := range suggestions {
		fmt.Printf("[%d:%d] %s/%s  %q -> %q", sg.Span.Start, sg.Span.End, sg.Source(), sg.Kind, sg.Original, sg.Suggested)
		if sg.Explanation != "" {
			fmt.Printf("  (%s)", sg.Explanation)
		}
		fmt.Println()
	}
	fmt.Printf("%d suggestion(s) over %d characters\n", len(suggestions), len(content))
}
