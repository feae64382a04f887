// Package pipeline orchestrates an episode run end to end: gather sources,
// write the script, synthesize every turn, assemble the audio, publish.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newscastfm/newscast/internal/assembly"
	"github.com/newscastfm/newscast/internal/config"
	"github.com/newscastfm/newscast/internal/progress"
	"github.com/newscastfm/newscast/internal/publish"
	"github.com/newscastfm/newscast/internal/script"
	"github.com/newscastfm/newscast/internal/source"
	"github.com/newscastfm/newscast/internal/tts"
)

const tracerName = "newscast/pipeline"

type Options struct {
	Topic   string
	Sources []string
	Output  string

	Model       string
	TTSProvider string

	ScriptOnly  bool
	FromScript  string
	SkipPublish bool
	Verbose     bool

	Config     *config.Config
	Log        *slog.Logger
	OnProgress progress.Callback
}

// PipelineError tags a failure with the stage it happened in, so the CLI
// can report "synthesize failed" rather than a bare wrapped chain.
type PipelineError struct {
	Stage   string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result reports what a completed run produced.
type Result struct {
	ScriptPath string
	OutputFile string
	EpisodeURL string
	Duration   string
	SizeMB     float64
}

func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.OnProgress == nil {
		opts.OnProgress = progress.NopCallback
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tracer := otel.Tracer(tracerName)
	ctx, runSpan := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("topic", opts.Topic)))
	defer runSpan.End()

	s, err := makeScript(ctx, tracer, log, opts, start)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	if opts.ScriptOnly {
		out := opts.Output
		if out == "" {
			out = publish.Slugify(s.Title) + ".json"
		}
		if err := script.SaveScript(s, out); err != nil {
			return nil, &PipelineError{Stage: "script", Message: "failed to save script", Err: err}
		}
		log.InfoContext(ctx, "script saved", "path", out, "words", s.WordCount())
		result.ScriptPath = out
		opts.OnProgress(progress.Event{
			Stage:      progress.StageComplete,
			Message:    fmt.Sprintf("Script saved to %s (%d words)", out, s.WordCount()),
			OutputFile: out,
		})
		return result, nil
	}

	output := opts.Output
	if output == "" {
		output = publish.Slugify(s.Title) + ".mp3"
	}

	if err := synthesize(ctx, tracer, log, opts, s, output, start); err != nil {
		return nil, err
	}
	result.OutputFile = output

	info, statErr := os.Stat(output)
	if statErr == nil {
		result.SizeMB = float64(info.Size()) / (1024 * 1024)
	}
	result.Duration = assembly.ProbeDuration(output)

	if !opts.SkipPublish {
		url, err := publishEpisode(ctx, tracer, log, opts, s, output, start)
		if err != nil {
			return nil, err
		}
		result.EpisodeURL = url
	}

	opts.OnProgress(progress.Event{
		Stage:      progress.StageComplete,
		Message:    "Episode complete",
		OutputFile: output,
		EpisodeURL: result.EpisodeURL,
		Duration:   result.Duration,
		SizeMB:     result.SizeMB,
	})
	log.InfoContext(ctx, "pipeline complete",
		"output", output,
		"url", result.EpisodeURL,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return result, nil
}

func makeScript(ctx context.Context, tracer trace.Tracer, log *slog.Logger, opts Options, start time.Time) (*script.Script, error) {
	if opts.FromScript != "" {
		s, err := script.LoadScript(opts.FromScript)
		if err != nil {
			return nil, &PipelineError{Stage: "script", Message: "failed to load script", Err: err}
		}
		log.InfoContext(ctx, "script loaded", "path", opts.FromScript, "turns", len(s.Dialogue))
		return s, nil
	}

	var blocks []string
	if len(opts.Sources) > 0 {
		ctx, span := tracer.Start(ctx, "pipeline.sources")
		opts.OnProgress(progress.NewEvent(progress.StageSources, "Loading sources", 0.02, start))
		materials, err := source.Gather(ctx, opts.Sources)
		span.End()
		if err != nil {
			return nil, &PipelineError{Stage: "sources", Message: "failed to load source material", Err: err}
		}
		for _, m := range materials {
			log.InfoContext(ctx, "source loaded", "origin", m.Origin, "words", m.WordCount)
		}
		blocks = source.PromptBlocks(materials)
	}

	ctx, span := tracer.Start(ctx, "pipeline.script",
		trace.WithAttributes(attribute.String("model", opts.Model)))
	defer span.End()

	opts.OnProgress(progress.NewEvent(progress.StageScript, "Writing script", 0.1, start))

	gen, err := script.NewGenerator(ctx, opts.Model, opts.Config.AnthropicAPIKey)
	if err != nil {
		return nil, &PipelineError{Stage: "script", Message: "failed to create generator", Err: err}
	}
	writer := script.NewWriter(gen)

	s, err := writer.Write(ctx, opts.Topic, blocks)
	if err != nil {
		return nil, &PipelineError{Stage: "script", Message: "failed to write script", Err: err}
	}

	words := s.WordCount()
	span.SetAttributes(attribute.Int("script.words", words))
	log.InfoContext(ctx, "script written",
		"title", s.Title, "turns", len(s.Dialogue), "words", words,
		"est_minutes", estimateMinutes(words))
	return s, nil
}

func synthesize(ctx context.Context, tracer trace.Tracer, log *slog.Logger, opts Options, s *script.Script, output string, start time.Time) error {
	ctx, span := tracer.Start(ctx, "pipeline.synthesize",
		trace.WithAttributes(attribute.String("provider", opts.TTSProvider)))
	defer span.End()

	opts.OnProgress(progress.NewEvent(progress.StageSynthesize, "Synthesizing audio", 0.3, start))

	provider, err := tts.NewProvider(ctx, opts.TTSProvider, opts.Config.ElevenLabsAPIKey)
	if err != nil {
		return &PipelineError{Stage: "synthesize", Message: "failed to create TTS provider", Err: err}
	}
	defer provider.Close()

	tmpDir, err := os.MkdirTemp("", "newscast-*")
	if err != nil {
		return &PipelineError{Stage: "synthesize", Message: "failed to create temp directory", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	asm := assembly.New(provider, opts.Config.VoiceA, opts.Config.VoiceB, assembly.NewFFmpegCombiner())
	asm.OnTurn = func(done, total int) {
		pct := 0.3
		if total > 0 {
			pct = 0.3 + 0.5*float64(done)/float64(total)
		}
		opts.OnProgress(progress.Event{
			Stage:     progress.StageSynthesize,
			Message:   "Synthesizing audio",
			Percent:   pct,
			TurnNum:   done,
			TurnTotal: total,
			Elapsed:   time.Since(start),
		})
		if done == total {
			opts.OnProgress(progress.NewEvent(progress.StageAssemble, "Assembling episode", 0.85, start))
		}
	}

	if err := asm.Assemble(ctx, s, tmpDir, output); err != nil {
		return &PipelineError{Stage: "assemble", Message: "failed to assemble episode", Err: err}
	}

	log.InfoContext(ctx, "episode assembled", "output", output)
	return nil
}

func publishEpisode(ctx context.Context, tracer trace.Tracer, log *slog.Logger, opts Options, s *script.Script, output string, start time.Time) (string, error) {
	ctx, span := tracer.Start(ctx, "pipeline.publish")
	defer span.End()

	opts.OnProgress(progress.NewEvent(progress.StagePublish, "Publishing episode", 0.9, start))

	cfg := opts.Config
	store, err := publish.NewStorageFromEnv(ctx, cfg.Region, cfg.Bucket, cfg.PublicBase())
	if err != nil {
		return "", &PipelineError{Stage: "publish", Message: "failed to create storage", Err: err}
	}

	var host publish.HostClient
	if cfg.HostEnabled() {
		host = publish.NewBuzzsprout(cfg.BuzzsproutID, cfg.BuzzsproutToken, log)
	}

	pub := publish.NewPublisher(store, publish.FeedConfig{
		Title:       cfg.FeedTitle,
		Link:        cfg.FeedURL(),
		Description: cfg.FeedDescription,
	}, host, log)

	url, err := pub.Publish(ctx, output, publish.Metadata{
		Title:       s.Title,
		Description: s.Description,
		PubDate:     s.PubDate,
	})
	if err != nil {
		return "", &PipelineError{Stage: "publish", Message: "failed to publish episode", Err: err}
	}
	return url, nil
}

// estimateMinutes converts a dialogue word count to approximate spoken
// minutes at a 170 wpm two-host pace.
func estimateMinutes(words int) int {
	minutes := words / 170
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
