package assembly

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Audio output constants. The episode is always exported as 128k stereo MP3;
// the -3 dB gain is the single mastering step.
const (
	AudioBitrate    = "128k"
	AudioSampleRate = "44100"
	AudioChannels   = "2"
	AudioCodec      = "libmp3lame"
	MasterGain      = "volume=-3dB"
)

// FFmpegCombiner concatenates clips with the FFmpeg concat demuxer and
// applies the mastering gain in the same pass.
type FFmpegCombiner struct{}

func NewFFmpegCombiner() *FFmpegCombiner {
	return &FFmpegCombiner{}
}

func (c *FFmpegCombiner) Combine(ctx context.Context, segments []string, tmpDir, output string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no audio clips to combine")
	}

	listPath := filepath.Join(tmpDir, "concat.txt")
	if err := writeConcatList(segments, listPath); err != nil {
		return fmt.Errorf("build concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-af", MasterGain,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-ar", AudioSampleRate,
		"-ac", AudioChannels,
		"-y",
		output,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = nil

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w\n%s", err, stderr.String())
	}

	// Verify output exists and has non-zero size
	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("output file not created: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output file is empty")
	}
	return nil
}

func writeConcatList(segments []string, listPath string) error {
	var lines []string
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("file '%s'", seg))
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// CheckFFmpeg verifies ffmpeg is on PATH before any synthesis work starts.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found on PATH, install FFmpeg to assemble episodes")
	}
	return nil
}

// ProbeDuration returns the episode duration as "M:SS", or "" when ffprobe
// is unavailable.
func ProbeDuration(path string) string {
	out, err := exec.Command("ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return ""
	}
	var secs float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &secs); err != nil {
		return ""
	}
	return fmt.Sprintf("%d:%02d", int(secs)/60, int(secs)%60)
}
