package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"
)

const (
	// ReencodedName is the file name written next to the source audio by ReencodeAudio.
	ReencodedName = "fixed.out"

	mergeVideoCodec = "libx264"
	mergeCRF        = "24"

	// libx264 rejects odd frame dimensions; round both down to even.
	evenScaleFilter = "scale=trunc(iw/2)*2:trunc(ih/2)*2"
)

// argGroup is one flag-and-value unit of an ffmpeg command line.
type argGroup struct {
	name   string
	tokens []string
}

// argList keeps groups in command-line order.
type argList []argGroup

func (l argList) flatten() []string {
	size := 0
	for _, g := range l {
		size += len(g.tokens)
	}
	out := make([]string, 0, size)
	for _, g := range l {
		out = append(out, g.tokens...)
	}
	return out
}

func (l argList) names() []string {
	out := make([]string, 0, len(l))
	for _, g := range l {
		out = append(out, g.name)
	}
	return out
}

func group(name string, tokens ...string) argGroup {
	return argGroup{name: name, tokens: tokens}
}

func overwrite() argGroup { return group("overwrite", "-y") }

func input(path string) argGroup { return group("input", "-i", path) }

func strictErrors() argGroup { return group("strict", "-xerror") }

func output(path string) argGroup { return group("output", path) }

// ReencodedPath returns the sibling path ReencodeAudio writes for audioPath.
func ReencodedPath(audioPath string) string {
	return filepath.Join(filepath.Dir(audioPath), ReencodedName)
}

// VolumeMultiplier converts a volume percentage into ffmpeg's linear scale.
func VolumeMultiplier(percent float64) float64 {
	return percent / 100
}

// VolumeFilter renders the -filter:a expression for a volume percentage,
// e.g. 80 becomes volume='0.8'.
func VolumeFilter(percent float64) string {
	return fmt.Sprintf("volume='%s'", strconv.FormatFloat(VolumeMultiplier(percent), 'f', -1, 64))
}

func reencodeArgs(cfg Config, audioPath, outputPath string) argList {
	return argList{
		overwrite(),
		input(audioPath),
		group("audio_args", cfg.AudioArgs...),
		group("volume", "-filter:a", VolumeFilter(cfg.Volume)),
		output(outputPath),
	}
}

func mergeArgs(audioPath, videoPath, outputPath string) argList {
	return argList{
		overwrite(),
		input(audioPath),
		input(videoPath),
		group("audio_codec", "-c:a", "copy"),
		group("video_codec", "-c:v", mergeVideoCodec),
		group("video_filter", "-vf", evenScaleFilter),
		group("quality", "-crf", mergeCRF),
		group("timestamps", "-avoid_negative_ts", "make_zero"),
		strictErrors(),
		output(outputPath),
	}
}

func concatArgs(manifestPath, outputPath string) argList {
	return argList{
		overwrite(),
		group("format", "-f", "concat"),
		group("safe", "-safe", "0"),
		input(manifestPath),
		group("codec", "-c", "copy"),
		strictErrors(),
		output(outputPath),
	}
}
