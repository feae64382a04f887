// Package cli wires the newscast commands: generate (the full pipeline),
// publish (push an existing episode), and version.
package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newscastfm/newscast/internal/assembly"
	"github.com/newscastfm/newscast/internal/config"
	"github.com/newscastfm/newscast/internal/observability"
	"github.com/newscastfm/newscast/internal/pipeline"
	"github.com/newscastfm/newscast/internal/progress"
	"github.com/newscastfm/newscast/internal/script"
	"github.com/newscastfm/newscast/internal/tts"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newscast",
	Short: "Generate and publish two-host AI news podcast episodes",
	RunE:  runGenerate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newscast %s\n", Version)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a podcast episode on a topic",
	RunE:  runGenerate,
}

var (
	flagTopic       string
	flagSources     []string
	flagOutput      string
	flagModel       string
	flagTTS         string
	flagScriptOnly  bool
	flagFromScript  string
	flagSkipPublish bool
	flagVerbose     bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	for _, cmd := range []*cobra.Command{rootCmd, generateCmd} {
		cmd.Flags().StringVarP(&flagTopic, "topic", "p", "", "Episode topic")
		cmd.Flags().StringArrayVarP(&flagSources, "source", "i", nil, "Source material (URL, PDF path, or text file path); repeatable")
		cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (MP3, or JSON with --script-only)")
		cmd.Flags().StringVarP(&flagModel, "model", "m", "sonnet", "Script model: "+strings.Join(script.ModelNames(), ", "))
		cmd.Flags().StringVarP(&flagTTS, "tts", "T", "elevenlabs", "TTS provider: "+strings.Join(tts.ProviderNames(), ", "))
		cmd.Flags().BoolVarP(&flagScriptOnly, "script-only", "S", false, "Output script JSON only, skip synthesis and publishing")
		cmd.Flags().StringVarP(&flagFromScript, "from-script", "f", "", "Produce audio from an existing script JSON file")
		cmd.Flags().BoolVar(&flagSkipPublish, "skip-publish", false, "Keep the episode local, skip S3, feed, and host")
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagFromScript == "" && flagTopic == "" {
		return fmt.Errorf("either --topic (-p) or --from-script (-f) is required")
	}
	if flagFromScript != "" && flagTopic != "" {
		return fmt.Errorf("--topic and --from-script are mutually exclusive")
	}
	if flagScriptOnly && flagFromScript != "" {
		return fmt.Errorf("--script-only and --from-script are mutually exclusive")
	}
	if !slices.Contains(script.ModelNames(), flagModel) {
		return fmt.Errorf("invalid model %q: must be one of %s", flagModel, strings.Join(script.ModelNames(), ", "))
	}
	if !slices.Contains(tts.ProviderNames(), flagTTS) {
		return fmt.Errorf("invalid TTS provider %q: must be one of %s", flagTTS, strings.Join(tts.ProviderNames(), ", "))
	}

	ctx := cmd.Context()

	cfg := config.Load()
	if err := cfg.HydrateFromSecrets(ctx); err != nil {
		return err
	}
	if err := cfg.Validate(config.Needs{
		Script:     flagFromScript == "" && script.RequiresAPIKey(flagModel),
		Synthesis:  !flagScriptOnly,
		ElevenLabs: !flagScriptOnly && tts.RequiresAPIKey(flagTTS),
		Publish:    !flagScriptOnly && !flagSkipPublish,
	}); err != nil {
		return err
	}

	if !flagScriptOnly {
		if err := assembly.CheckFFmpeg(); err != nil {
			return err
		}
	}

	log := observability.InitLogger(flagVerbose)
	shutdown, err := observability.InitTracer(ctx, "newscast", Version)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	renderer := progress.NewBarRenderer(os.Stdout)

	_, err = pipeline.Run(ctx, pipeline.Options{
		Topic:       flagTopic,
		Sources:     flagSources,
		Output:      flagOutput,
		Model:       flagModel,
		TTSProvider: flagTTS,
		ScriptOnly:  flagScriptOnly,
		FromScript:  flagFromScript,
		SkipPublish: flagSkipPublish,
		Verbose:     flagVerbose,
		Config:      cfg,
		Log:         log,
		OnProgress:  renderer.Handle,
	})
	if err != nil {
		renderer.Handle(progress.Event{Error: err})
		renderer.Finish()
		return err
	}
	renderer.Finish()
	return nil
}
