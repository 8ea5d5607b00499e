package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/brochure"
	"github.com/fwojciec/brochure/goquery"
	"github.com/fwojciec/brochure/htmltomarkdown"
	brochurehttp "github.com/fwojciec/brochure/http"
	"github.com/fwojciec/brochure/ollama"
	"github.com/fwojciec/brochure/pipeline"
	"github.com/fwojciec/brochure/rod"
	brochureslog "github.com/fwojciec/brochure/slog"
	"github.com/fwojciec/brochure/trafilatura"
	"github.com/joho/godotenv"
	"github.com/ollama/ollama/api"
)

func main() {
	// Load optional .env configuration (OLLAMA_HOST, OLLAMA_MODEL)
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("brochure"),
		kong.Description("Generate a short markdown brochure for a company website"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	seedURL := normalizeURL(cli.URL)
	name := cli.Name
	if name == "" {
		name = companyNameFromURL(seedURL)
	}

	// Model client
	client, err := newModelClient(cli.Host, cli.Model)
	if err != nil {
		return err
	}
	if err := client.Heartbeat(ctx); err != nil {
		fmt.Fprintln(stderr, "Hint: is the Ollama server running? Start it with `ollama serve`")
		return err
	}

	// Create the page fetcher
	var fetcher brochure.Fetcher
	if cli.Browser {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		fetcher = brochurehttp.NewFetcher(brochurehttp.WithTimeout(cli.Timeout))
	}
	defer fetcher.Close()

	// Create the text extractor
	var extractor brochure.Extractor
	if cli.Readable {
		extractor = trafilatura.NewExtractor(htmltomarkdown.NewConverter())
	} else {
		extractor = goquery.NewExtractor()
	}

	var filter brochure.RelevanceFilter = ollama.NewFilter(client)
	var composer brochure.Composer = ollama.NewComposer(client, ollama.WithMaxPromptRunes(cli.MaxChars))

	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		fetcher = brochureslog.NewLoggingFetcher(fetcher, logger)
		filter = brochureslog.NewLoggingFilter(filter, logger)
		composer = brochureslog.NewLoggingComposer(composer, logger)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Pipeline: &pipeline.Pipeline{
			Fetcher:     fetcher,
			Extractor:   extractor,
			Links:       goquery.NewLinkExtractor(),
			Filter:      filter,
			Composer:    composer,
			Concurrency: cli.Concurrency,
		},
	}

	cmd := &GenerateCmd{
		URL:     seedURL,
		Name:    name,
		Stream:  cli.Stream,
		Verbose: cli.Verbose,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL         string        `arg:"" required:"" help:"Company website URL"`
	Name        string        `arg:"" optional:"" help:"Company name (defaults to the website host)"`
	Model       string        `short:"m" env:"OLLAMA_MODEL" default:"llama3.2" help:"Ollama model to use"`
	Host        string        `help:"Ollama server address (defaults to OLLAMA_HOST or http://127.0.0.1:11434)"`
	Stream      bool          `short:"s" help:"Stream the brochure to stdout as the model writes it"`
	Browser     bool          `short:"b" help:"Render pages with a headless browser instead of plain HTTP"`
	Readable    bool          `short:"r" help:"Feed the model extracted article content instead of full page text"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent fetch limit"`
	MaxChars    int           `default:"5000" help:"Truncate the model prompt to this many characters"`
	Verbose     bool          `short:"v" help:"Log pipeline details to stderr"`
}

// newModelClient builds the Ollama client. An explicit host takes
// precedence over the OLLAMA_HOST environment variable.
func newModelClient(host, model string) (*ollama.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to configure model client: %w", err)
		}
		return ollama.NewClient(client, model), nil
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", host, err)
	}
	return ollama.NewClient(api.NewClient(base, http.DefaultClient), model), nil
}

// normalizeURL adds an https scheme when the URL has none.
func normalizeURL(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + rawURL
}

// companyNameFromURL derives a fallback company name from the URL host.
func companyNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
