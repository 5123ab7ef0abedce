package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/darcons/kcal/internal/config"
	"github.com/darcons/kcal/internal/off"
	"github.com/darcons/kcal/internal/pkg/progress"
	"github.com/darcons/kcal/internal/pkg/strx"
	"github.com/darcons/kcal/internal/report"
	"github.com/darcons/kcal/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	userAgent      = "kcal/dev (+https://github.com/darcons/kcal)"
	requestTimeout = 20 * time.Second

	doctorProbeQuery = "water"
	doctorProbeCode  = "5449000000996"
)

var errUsage = errors.New("usage: kcal <command> (run 'kcal --help')")

type productGetter interface {
	GetProduct(ctx context.Context, req off.GetProductRequest) (off.Product, error)
}

type productSearcher interface {
	SearchProducts(ctx context.Context, req off.SearchRequest) (*off.SearchResult, error)
}

func Run(args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

type lookupOptions struct {
	fields  string
	lang    string
	country string
	format  string
}

type searchOptions struct {
	fields   string
	lang     string
	country  string
	pageSize int
	format   string
}

type browseOptions struct {
	lang     string
	country  string
	pageSize int
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "kcal"
	cmd.Short = "open food facts nutrition lookup cli"
	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		if err := cmd.Help(); err != nil {
			return err
		}
		return errUsage
	}
	cmd.AddCommand(newLookupCmd(), newSearchCmd(), newBrowseCmd(), newDoctorCmd())
	return cmd
}

func newLookupCmd() *cobra.Command {
	opts := lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "fetch one product by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLookup(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.fields, "fields", "", "comma-separated list of fields to request")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language code (defaults to KCAL_LANG)")
	cmd.Flags().StringVar(&opts.country, "country", "", "country code (defaults to KCAL_COUNTRY)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func newSearchCmd() *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "search products by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSearch(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.fields, "fields", "", "comma-separated list of fields to request")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language code (defaults to KCAL_LANG)")
	cmd.Flags().StringVar(&opts.country, "country", "", "country code (defaults to KCAL_COUNTRY)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "number of results to request (defaults to KCAL_PAGE_SIZE)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func newBrowseCmd() *cobra.Command {
	opts := browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "interactive product browser",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse(opts)
		},
	}

	cmd.Flags().StringVar(&opts.lang, "lang", "", "language code (defaults to KCAL_LANG)")
	cmd.Flags().StringVar(&opts.country, "country", "", "country code (defaults to KCAL_COUNTRY)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "number of results to request (defaults to KCAL_PAGE_SIZE)")

	return cmd
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "run diagnostics",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor()
		},
	}
}

func runLookup(code string, opts lookupOptions) error {
	env, err := config.LoadOpenFoodFactsFromEnv()
	if err != nil {
		return err
	}

	client, err := newOFFClient(env)
	if err != nil {
		return err
	}

	req := off.GetProductRequest{
		Code:    code,
		Fields:  strx.ParseCSV(opts.fields),
		Lang:    valueOrDefault(opts.lang, env.Lang),
		Country: valueOrDefault(opts.country, env.Country),
	}

	product, err := fetchProduct(context.Background(), client, req)
	if err != nil {
		return err
	}
	return outputLookup(opts.format, product)
}

func fetchProduct(ctx context.Context, getter productGetter, req off.GetProductRequest) (off.Product, error) {
	var product off.Product
	if err := runWithSpinner("fetching product", func() error {
		var runErr error
		product, runErr = getter.GetProduct(ctx, req)
		return runErr
	}); err != nil {
		return nil, err
	}
	return product, nil
}

func runSearch(query string, opts searchOptions) error {
	env, err := config.LoadOpenFoodFactsFromEnv()
	if err != nil {
		return err
	}

	client, err := newOFFClient(env)
	if err != nil {
		return err
	}

	pageSize := opts.pageSize
	if pageSize <= 0 {
		pageSize = env.PageSize
	}

	req := off.SearchRequest{
		Query:    query,
		PageSize: pageSize,
		Fields:   strx.ParseCSV(opts.fields),
		Lang:     valueOrDefault(opts.lang, env.Lang),
		Country:  valueOrDefault(opts.country, env.Country),
	}

	result, err := fetchSearchResult(context.Background(), client, req)
	if err != nil {
		return err
	}
	return outputSearch(opts.format, result)
}

func fetchSearchResult(ctx context.Context, searcher productSearcher, req off.SearchRequest) (*off.SearchResult, error) {
	var result *off.SearchResult
	if err := runWithSpinner("searching products", func() error {
		var runErr error
		result, runErr = searcher.SearchProducts(ctx, req)
		return runErr
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func runBrowse(opts browseOptions) error {
	env, err := config.LoadOpenFoodFactsFromEnv()
	if err != nil {
		return err
	}

	client, err := newOFFClient(env)
	if err != nil {
		return err
	}

	pageSize := opts.pageSize
	if pageSize <= 0 {
		pageSize = env.PageSize
	}

	return tui.RunBrowse(client, tui.BrowseOptions{
		Lang:     valueOrDefault(opts.lang, env.Lang),
		Country:  valueOrDefault(opts.country, env.Country),
		PageSize: pageSize,
	})
}

func runDoctor() error {
	env, err := config.LoadOpenFoodFactsFromEnv()
	if err != nil {
		return err
	}

	status := map[string]string{
		"api_base_url": env.APIBaseURL,
		"defaults":     fmt.Sprintf("lang=%s country=%s page_size=%d", env.Lang, env.Country, env.PageSize),
	}

	client, err := newOFFClient(env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.SearchProducts(ctx, off.SearchRequest{Query: doctorProbeQuery, PageSize: 1, Lang: env.Lang, Country: env.Country}); err != nil {
		status["search"] = "error: " + err.Error()
	} else {
		status["search"] = "ok"
	}

	product, err := client.GetProduct(ctx, off.GetProductRequest{Code: doctorProbeCode, Lang: env.Lang, Country: env.Country})
	switch {
	case err != nil:
		status["lookup"] = "error: " + err.Error()
	case product == nil:
		status["lookup"] = "ok (probe code unknown)"
	default:
		status["lookup"] = "ok"
	}

	keys := slices.Collect(maps.Keys(status))
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Printf("%s: %s\n", k, status[k])
	}
	return nil
}

func outputLookup(format string, product off.Product) error {
	if product == nil {
		fmt.Fprintln(os.Stdout, "product not found.")
		return nil
	}

	switch normalizeFormat(format) {
	case "json":
		return report.PrintJSON(product)
	case "table":
		return report.PrintDetails(product)
	default:
		return fmt.Errorf("could not render output format %q (use table or json)", format)
	}
}

func outputSearch(format string, result *off.SearchResult) error {
	switch normalizeFormat(format) {
	case "json":
		return report.PrintJSON(result)
	case "table":
		return report.PrintSearchTable(result)
	default:
		return fmt.Errorf("could not render output format %q (use table or json)", format)
	}
}

func newOFFClient(env config.OpenFoodFacts) (*off.Client, error) {
	return off.NewClient(
		off.WithBaseURL(env.APIBaseURL),
		off.WithUserAgent(userAgent),
		off.WithTimeout(requestTimeout),
	)
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

func valueOrDefault(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func runWithSpinner(message string, fn func() error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn()
	}
	return progress.RunCLISpinner(os.Stderr, message, fn)
}
