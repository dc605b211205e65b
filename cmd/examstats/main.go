package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"examstats/internal/config"
	"examstats/internal/exporter"
	"examstats/internal/infrastructure"
	"examstats/internal/records"
	"examstats/internal/services"
	"examstats/internal/validation"
	"examstats/pkg/contracts"
	"examstats/pkg/contracts/domain"
)

// options holds the parsed command line
type options struct {
	configPath   string
	questions    string
	responses    string
	ids          string
	all          bool
	out          string
	responsesOut string
	sheet        string
	noIndex      bool
	version      bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, logger, os.Stdout); err != nil {
		logger.Error("examstats failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("examstats", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to examstats.yaml or $EXAMSTATS_CONFIG)")
	fs.StringVar(&opts.questions, "questions", "", "question source: .csv, .xlsx, sqlite://path?table=t or postgres://...?table=t")
	fs.StringVar(&opts.responses, "responses", "", "response source, same forms as -questions")
	fs.StringVar(&opts.ids, "ids", "", "comma separated question row indices, e.g. 3,1,2")
	fs.BoolVar(&opts.all, "all", false, "build every question in the question source")
	fs.StringVar(&opts.out, "out", "", "write the question report CSV here (relative paths go to the reports directory)")
	fs.StringVar(&opts.responsesOut, "responses-out", "", "write the per-response CSV here")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from .xlsx sources (defaults to the first)")
	fs.BoolVar(&opts.noIndex, "no-index", false, "file sources have no leading index column")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.version {
		return opts, nil
	}

	if opts.all == (opts.ids != "") {
		err := errors.New("exactly one of -ids or -all is required")
		fmt.Fprintln(output, err)
		fs.Usage()
		return nil, err
	}

	return opts, nil
}

// loadConfig layers the command line over defaults, file and environment
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.questions != "" {
		cfg.Sources.Questions = opts.questions
	}
	if opts.responses != "" {
		cfg.Sources.Responses = opts.responses
	}
	if opts.sheet != "" {
		cfg.Sources.Sheet = opts.sheet
	}
	if opts.noIndex {
		cfg.Sources.IndexColumn = false
	}

	return cfg, nil
}

func run(ctx context.Context, opts *options, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	paths, err := cfg.GetPaths()
	if err != nil {
		return err
	}

	sources := services.Sources{
		Questions: paths.ResolveSource(cfg.Sources.Questions),
		Responses: paths.ResolveSource(cfg.Sources.Responses),
	}

	validator := validation.NewFileValidator(logger)
	for _, location := range []string{sources.Questions, sources.Responses} {
		if err := validator.ValidateSource(location); err != nil {
			return err
		}
	}

	loader := records.NewSourceLoader(records.Options{
		IndexColumn: cfg.Sources.IndexColumn,
		Sheet:       cfg.Sources.Sheet,
	}, logger)
	// A single run reads each source once regardless of cache.enabled
	service := services.NewExamService(loader, sources, true, logger)

	logger.InfoContext(ctx, "Building questions",
		slog.String("questions", sources.Questions),
		slog.String("responses", sources.Responses),
		slog.Bool("all", opts.all))

	var questions []*domain.Question
	if opts.all {
		questions, err = service.AllQuestions(ctx)
	} else {
		var ids []int
		ids, err = parseIDs(opts.ids)
		if err != nil {
			return err
		}
		questions, err = service.Questions(ctx, ids)
	}
	if err != nil {
		return err
	}

	if err := printSummary(stdout, questions); err != nil {
		return err
	}

	if opts.out == "" && opts.responsesOut == "" {
		return nil
	}

	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	reports := exporter.NewReportExporter(paths, logger)

	if opts.out != "" {
		path, err := reports.ExportQuestions(questions, opts.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nquestion report: %s\n", path)
	}

	if opts.responsesOut != "" {
		path, err := reports.ExportResponses(questions, opts.responsesOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "response report: %s\n", path)
	}

	return nil
}

// parseIDs parses "3,1,2" preserving order and duplicates
func parseIDs(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("no question ids given")
	}
	return ids, nil
}

func printSummary(w io.Writer, questions []*domain.Question) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "q_id\texam\tq_number\tresponses\tdrawing\tredrawing\tcorrect")
	for _, q := range questions {
		correct := "-"
		if q.FractionCorrect != nil {
			correct = fmt.Sprintf("%.2f", *q.FractionCorrect)
		}
		fmt.Fprintf(tw, "%d\t%v\t%v\t%d\t%.2f\t%.2f\t%s\n",
			q.ID, q.Exam, q.QNumber, q.NumberResponses,
			q.FractionWithDrawing, q.FractionWithRedrawing, correct)
	}
	return tw.Flush()
}
