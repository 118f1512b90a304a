package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/goextract/internal/config"
	"github.com/hyperifyio/goextract/internal/llmtools"
	"github.com/hyperifyio/goextract/internal/loader"
	"github.com/hyperifyio/goextract/internal/report"
	"github.com/hyperifyio/goextract/internal/ujeebu"
)

var (
	cfgFile   string
	apiKey    string
	baseURL   string
	verbose   bool
	text      bool
	html      bool
	author    bool
	pubDate   bool
	images    bool
	quickMode bool

	outputFormat string
	pdfPath      string
)

var rootCmd = &cobra.Command{
	Use:   "goextract",
	Short: "Extract readable articles from webpages via the Ujeebu API",
	Long: `goextract turns webpage URLs into structured articles through the
Ujeebu extract API, either one at a time or as a concurrent batch load.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a single URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var loadCmd = &cobra.Command{
	Use:   "load <url>...",
	Short: "Load several URLs concurrently into documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

var toolCmd = &cobra.Command{
	Use:   "tool <input>",
	Short: "Invoke the agent tool exactly as a model would",
	Long: `Invoke the ujeebu_extract agent tool with a raw input string: either a
bare URL or a JSON object {url, text, html, author, pub_date, images, quick_mode}.
The result is always printed as text, errors included.`,
	Args: cobra.ExactArgs(1),
	RunE: runTool,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func init() {
	// .env is optional; missing files are fine.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	defaults := ujeebu.DefaultOptions()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	pf.StringVar(&apiKey, "api-key", "", "Ujeebu API key (default: "+ujeebu.APIKeyEnv+" env)")
	pf.StringVar(&baseURL, "base-url", ujeebu.DefaultBaseURL, "extract endpoint base URL")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	pf.BoolVar(&text, "text", defaults.Text, "extract plain text body")
	pf.BoolVar(&html, "html", defaults.HTML, "extract HTML body")
	pf.BoolVar(&author, "author", defaults.Author, "extract author")
	pf.BoolVar(&pubDate, "pub-date", defaults.PubDate, "extract publication date")
	pf.BoolVar(&images, "images", defaults.Images, "extract image URLs")
	pf.BoolVar(&quickMode, "quick", defaults.QuickMode, "trade accuracy for latency upstream")

	for _, c := range []*cobra.Command{extractCmd, loadCmd} {
		c.Flags().StringVar(&outputFormat, "format", "text", "output format (text|markdown|json)")
		c.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF report to this path")
	}
	rootCmd.AddCommand(extractCmd, loadCmd, toolCmd)
}

// resolveConfig layers defaults, the optional config file, and explicitly set
// command-line flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		fc, err := config.LoadFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", cfgFile, err)
		}
		config.Apply(&cfg, fc)
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	for name, dst := range map[string]*bool{
		"text":     &cfg.Options.Text,
		"html":     &cfg.Options.HTML,
		"author":   &cfg.Options.Author,
		"pub-date": &cfg.Options.PubDate,
		"images":   &cfg.Options.Images,
		"quick":    &cfg.Options.QuickMode,
	} {
		if flags.Changed(name) {
			*dst = mustBool(flags.Lookup(name).Value.String())
		}
	}
	if verbose || cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg, nil
}

func mustBool(s string) bool { return s == "true" }

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	client, err := ujeebu.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return err
	}
	article, err := client.Extract(cmd.Context(), args[0], cfg.Options)
	if err != nil {
		return err
	}
	entries := []report.Entry{{RequestedURL: args[0], Article: article}}
	return emit(cmd, entries, cfg.Options, func() error {
		b, err := json.MarshalIndent(article, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	})
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	client, err := ujeebu.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return err
	}
	l := loader.NewWithClient(client, cfg.Options)
	docs := l.Load(cmd.Context(), args)

	switch outputFormat {
	case "markdown", "text":
		md := documentsMarkdown(docs)
		fmt.Fprintln(cmd.OutOrStdout(), md)
		if pdfPath != "" {
			return report.WritePDF(md, pdfPath)
		}
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, d := range docs {
			if err := enc.Encode(d); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}

func runTool(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	tool, err := llmtools.NewExtractTool(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tool.Invoke(cmd.Context(), args[0]))
	return nil
}

// emit renders entries in the selected format; jsonFn handles the json case
// so each command controls its own native shape.
func emit(cmd *cobra.Command, entries []report.Entry, opts ujeebu.Options, jsonFn func() error) error {
	switch outputFormat {
	case "json":
		return jsonFn()
	case "text", "markdown":
		md := report.Markdown(entries, opts)
		fmt.Fprintln(cmd.OutOrStdout(), md)
		if pdfPath != "" {
			return report.WritePDF(md, pdfPath)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}

// documentsMarkdown renders loaded documents in the report layout without
// re-fetching the articles.
func documentsMarkdown(docs []loader.Document) string {
	var out string
	for i, d := range docs {
		if i > 0 {
			out += "\n---\n\n"
		}
		title, _ := d.Metadata["title"].(string)
		if title == "" {
			title, _ = d.Metadata["url"].(string)
		}
		out += "# " + title + "\n\n"
		if lang, _ := d.Metadata["language"].(string); lang != "" {
			out += "Language: " + report.LanguageName(lang) + "\n\n"
		}
		if d.Content != "" {
			out += d.Content + "\n\n"
		}
		if src, _ := d.Metadata["canonical_url"].(string); src != "" {
			out += "Source: [" + src + "](" + src + ")\n"
		}
	}
	return out
}
