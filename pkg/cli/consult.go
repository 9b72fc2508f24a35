package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/analysis"
	"github.com/m-mizutani/chatlaw/pkg/classify"
	"github.com/m-mizutani/chatlaw/pkg/extract"
	"github.com/m-mizutani/chatlaw/pkg/interfaces"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/repository"
	"github.com/m-mizutani/chatlaw/pkg/usecase/consult"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	generatorTemplate = "template"
	generatorGemini   = "gemini"
)

// consultConfig holds the options that shape a consultation use case
type consultConfig struct {
	policyDir  string
	generator  string
	sessionTTL time.Duration
}

func consultFlags(cc *consultConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Directory of Rego classification policies",
			Sources:     cli.EnvVars("CHATLAW_POLICY_DIR"),
			Destination: &cc.policyDir,
		},
		&cli.StringFlag{
			Name:        "generator",
			Aliases:     []string{"g"},
			Usage:       "Report generator (template, gemini)",
			Value:       generatorTemplate,
			Sources:     cli.EnvVars("CHATLAW_GENERATOR"),
			Destination: &cc.generator,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which an unfinished consultation is dropped (0 disables)",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("CHATLAW_SESSION_TTL"),
			Destination: &cc.sessionTTL,
		},
	}
}

// newUseCase wires classifier, extractor, generator and archive. The
// returned cleanup closes the repository and stops the session janitor.
func (cc *consultConfig) newUseCase(ctx context.Context, cfg *config) (*consult.UseCase, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var classifier interfaces.Classifier = classify.NewKeyword()
	if cc.policyDir != "" {
		policy, err := classify.NewPolicy(ctx, cc.policyDir, classifier)
		if err != nil {
			return nil, nil, err
		}
		classifier = policy
	}

	var repo repository.Repository
	if cfg.hasRepository() {
		fs, err := cfg.newRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = fs.Close() })
		repo = fs
	}

	gen, err := newGenerator(ctx, cfg, cc.generator, repo)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var storage adapter.Storage
	if cfg.bucket != "" {
		if storage, err = cfg.newStorage(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	var archiveOpts []analysis.ArchiveOption
	if cfg.bqDataset != "" {
		bq, err := cfg.newBigQuery(ctx)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		archiveOpts = append(archiveOpts, analysis.WithAnalytics(bq, cfg.bqTable))
	}

	var opts []consult.Option
	if repo != nil || storage != nil || len(archiveOpts) > 0 {
		opts = append(opts, consult.WithArchive(analysis.NewArchive(repo, storage, archiveOpts...)))
	}
	uc := consult.New(classifier, extract.NewRegex(), gen, opts...)

	if cc.sessionTTL > 0 {
		janitorCtx, cancel := context.WithCancel(ctx)
		cleanups = append(cleanups, cancel)
		go uc.Sessions().RunJanitor(janitorCtx, time.Minute, cc.sessionTTL)
	}

	return uc, cleanup, nil
}

func consultCommand() *cli.Command {
	var (
		cfg      config
		cc       consultConfig
		query    string
		maxTurns int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Initial description of the legal issue (asked interactively if empty)",
			Destination: &query,
		},
		&cli.IntFlag{
			Name:        "max-turns",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of questions to answer",
			Value:       model.DefaultMaxTurns,
			Sources:     cli.EnvVars("CHATLAW_MAX_TURNS"),
			Destination: &maxTurns,
		},
	}
	flags = append(flags, consultFlags(&cc)...)
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, storageFlags(&cfg)...)

	return &cli.Command{
		Name:  "consult",
		Usage: "Start an interactive legal consultation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, cleanup, err := cc.newUseCase(ctx, &cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			in, err := newLineReader(c.Root().Reader, c.Root().Writer)
			if err != nil {
				return err
			}
			defer in.Close()

			return runConsultation(ctx, uc, in, c.Root().Writer, newIndicator(c.Root().Writer), query, int(maxTurns))
		},
	}
}

func newGenerator(ctx context.Context, cfg *config, name string, repo repository.Repository) (interfaces.AnalysisGenerator, error) {
	switch name {
	case generatorTemplate:
		return analysis.NewTemplate(), nil

	case generatorGemini:
		gemini, err := cfg.newGemini(ctx)
		if err != nil {
			return nil, err
		}
		var opts []analysis.GeminiOption
		if repo != nil {
			opts = append(opts, analysis.WithRetriever(analysis.NewRetriever(gemini, repo)))
		}
		return analysis.NewGemini(gemini, opts...), nil

	default:
		return nil, goerr.New("unknown generator", goerr.T(model.TagInvalidArgument), goerr.V("generator", name))
	}
}

// lineReader reads one answer at a time
type lineReader interface {
	Readline() (string, error)
	Close() error
}

type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scanReader) Readline() (string, error) {
	fmt.Fprint(s.out, "> ")
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) Close() error { return nil }

// newLineReader uses readline on an interactive stdin and plain line
// scanning otherwise (pipes, tests).
func newLineReader(r io.Reader, w io.Writer) (lineReader, error) {
	if f, ok := r.(*os.File); ok && f == os.Stdin && readline.DefaultIsTerminal() {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize readline")
		}
		return rl, nil
	}
	return &scanReader{scanner: bufio.NewScanner(r), out: w}, nil
}

// indicator shows progress while a turn is processed
type indicator interface {
	Start()
	Stop()
}

type nopIndicator struct{}

func (nopIndicator) Start() {}
func (nopIndicator) Stop() {}

func newIndicator(w io.Writer) indicator {
	if f, ok := w.(*os.File); !ok || f != os.Stdout {
		return nopIndicator{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " thinking..."
	return s
}

func runConsultation(ctx context.Context, uc *consult.UseCase, in lineReader, out io.Writer, progress indicator, query string, maxTurns int) error {
	if strings.TrimSpace(query) == "" {
		fmt.Fprintf(out, "Describe your legal issue:\n")
		line, err := in.Readline()
		if err != nil {
			return nil
		}
		query = line
	}

	progress.Start()
	started, err := uc.Start(ctx, query, maxTurns)
	progress.Stop()
	if err != nil {
		return goerr.Wrap(err, "failed to start consultation")
	}

	ctx = logging.WithAttrs(ctx, "session_id", started.SessionID)
	if started.Subtype != model.SubtypeNone {
		fmt.Fprintf(out, "Case type: %s (%s), confidence %.2f\n", started.CaseType, started.Subtype, started.Confidence)
	} else {
		fmt.Fprintf(out, "Case type: %s, confidence %.2f\n", started.CaseType, started.Confidence)
	}
	fmt.Fprintf(out, "Type 'exit' to quit.\n")

	next := started.Question
	turn := 1
	for {
		fmt.Fprintf(out, "\n[%d/%d] %s\n", turn, started.MaxTurns, next)

		line, err := in.Readline()
		if err != nil {
			// EOF or interrupt
			fmt.Fprintf(out, "\nConsultation aborted\n")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			fmt.Fprintf(out, "Consultation aborted\n")
			return nil
		}

		progress.Start()
		res, err := uc.Answer(ctx, started.SessionID, line)
		progress.Stop()
		if err != nil {
			switch {
			case model.IsInvalidArgument(err):
				fmt.Fprintf(out, "Please type an answer.\n")
				continue
			case model.IsUpstream(err):
				logging.From(ctx).Warn("turn failed", "error", err)
				fmt.Fprintf(out, "Could not process the answer, please try again.\n")
				continue
			default:
				return goerr.Wrap(err, "failed to submit answer")
			}
		}

		if res.Finished() {
			fmt.Fprintf(out, "\n%s\n", res.Report.Text)
			fmt.Fprintf(out, "Consultation %s finished after %d answers\n", started.SessionID, res.TurnsDone)
			return nil
		}

		next = res.Question
		turn = res.TurnsDone + 1
	}
}
