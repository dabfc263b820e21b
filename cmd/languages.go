package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalmanmoshe/fencedit/internal/ui"
)

var (
	languagesSearch string
	languagesYAML   bool
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List known languages and their fence tags",
	Long: `List the language table used to resolve fence tags.

Examples:
  fencedit languages
  fencedit languages --search pyth
  fencedit languages --yaml > languages.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return a.runLanguages(cmd.OutOrStdout(), languagesSearch, languagesYAML)
	},
}

var langCmd = &cobra.Command{
	Use:   "lang <tag>",
	Short: "Resolve a fence tag to its language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return a.runLang(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(langCmd)
	languagesCmd.Flags().StringVarP(&languagesSearch, "search", "s", "", "Fuzzy-search known tags")
	languagesCmd.Flags().BoolVar(&languagesYAML, "yaml", false, "Output the table as YAML")
}

type languageTable struct {
	Default   string              `yaml:"default"`
	Aliases   map[string]string   `yaml:"aliases,omitempty"`
	Languages map[string][]string `yaml:"languages"`
}

func (a *app) runLanguages(w io.Writer, search string, asYAML bool) error {
	if search != "" {
		for _, tag := range a.registry.Suggest(search, 15) {
			fmt.Fprintf(w, "%-16s %s\n", tag, a.registry.Resolve(tag))
		}
		return nil
	}

	langs := a.registry.Languages()
	if asYAML {
		table := languageTable{
			Default:   a.registry.Default(),
			Aliases:   a.cfg.Language.Aliases,
			Languages: make(map[string][]string, len(langs)),
		}
		for _, lang := range langs {
			table.Languages[lang] = a.registry.Tags(lang)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(table); err != nil {
			return fmt.Errorf("encode languages: %w", err)
		}
		return enc.Close()
	}

	styles := ui.NewStyles(w)
	for _, lang := range langs {
		fmt.Fprintf(w, "%s %s\n", styles.Bold.Render(fmt.Sprintf("%-18s", lang)), styles.Muted.Render(strings.Join(a.registry.Tags(lang), ", ")))
	}
	for _, tag := range a.cfg.AliasTags() {
		fmt.Fprintf(w, "%s %s\n", styles.Bold.Render(fmt.Sprintf("%-18s", tag)), styles.Muted.Render("alias of "+a.cfg.Language.Aliases[tag]))
	}
	return nil
}

func (a *app) runLang(w io.Writer, tag string) error {
	lang := a.registry.Resolve(tag)
	fmt.Fprintln(w, lang)

	if lang == a.registry.Default() && strings.TrimSpace(tag) != "" {
		if suggestions := a.registry.Suggest(tag, 3); len(suggestions) > 0 {
			a.log.Debug("unknown fence tag", "tag", tag, "suggestions", suggestions)
			fmt.Fprintln(w, ui.NewStyles(w).Muted.Render("did you mean: "+strings.Join(suggestions, ", ")))
		}
	}
	return nil
}
