package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newscastfm/newscast/internal/config"
	"github.com/newscastfm/newscast/internal/observability"
	"github.com/newscastfm/newscast/internal/publish"
	"github.com/newscastfm/newscast/internal/script"
)

var (
	flagPublishTitle       string
	flagPublishDescription string
	flagPublishSlug        string
	flagPublishScript      string
)

var publishCmd = &cobra.Command{
	Use:   "publish <mp3-file>",
	Short: "Publish an existing episode MP3",
	Long:  "Upload an MP3 to the show bucket, update the episode catalog, and regenerate the feed. Metadata is read from the companion script JSON when present.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&flagPublishTitle, "title", "", "Episode title (overrides script metadata)")
	publishCmd.Flags().StringVar(&flagPublishDescription, "description", "", "Episode description (overrides script metadata)")
	publishCmd.Flags().StringVar(&flagPublishSlug, "slug", "", "Episode slug (default derived from title)")
	publishCmd.Flags().StringVar(&flagPublishScript, "script", "", "Companion script JSON (default <mp3-file>.json)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	mp3Path := args[0]

	if !strings.HasSuffix(strings.ToLower(mp3Path), ".mp3") {
		return fmt.Errorf("%s is not an MP3 file", mp3Path)
	}
	if _, err := os.Stat(mp3Path); err != nil {
		return fmt.Errorf("cannot access %s: %w", mp3Path, err)
	}

	meta := publish.Metadata{
		Title:       flagPublishTitle,
		Description: flagPublishDescription,
		Slug:        flagPublishSlug,
	}

	// Companion script JSON fills in whatever the flags left blank.
	scriptPath := flagPublishScript
	if scriptPath == "" {
		scriptPath = strings.TrimSuffix(mp3Path, ".mp3") + ".json"
	}
	if s, err := script.LoadScript(scriptPath); err == nil {
		if meta.Title == "" {
			meta.Title = s.Title
		}
		if meta.Description == "" {
			meta.Description = s.Description
		}
		meta.PubDate = s.PubDate
	} else if flagPublishScript != "" {
		return fmt.Errorf("cannot load script %s: %w", flagPublishScript, err)
	}
	if meta.Title == "" {
		return fmt.Errorf("no title: pass --title or provide a companion script JSON")
	}

	ctx := cmd.Context()

	cfg := config.Load()
	if err := cfg.HydrateFromSecrets(ctx); err != nil {
		return err
	}
	if err := cfg.Validate(config.Needs{Publish: true}); err != nil {
		return err
	}

	log := observability.InitLogger(flagVerbose)

	store, err := publish.NewStorageFromEnv(ctx, cfg.Region, cfg.Bucket, cfg.PublicBase())
	if err != nil {
		return err
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

	url, err := pub.Publish(ctx, mp3Path, meta)
	if err != nil {
		return err
	}

	fmt.Printf("Published: %s\n", url)
	return nil
}
