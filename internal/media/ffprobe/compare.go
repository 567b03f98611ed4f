package ffprobe

import (
	"errors"
	"fmt"
)

// ErrIncompatible marks segments that cannot be joined with stream copy.
var ErrIncompatible = errors.New("segments are not stream-copy compatible")

// MismatchError reports the first property that differs from segment zero.
type MismatchError struct {
	Index    int
	Property string
	Want     string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("segment %d: %s is %q, first segment has %q", e.Index, e.Property, e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error { return ErrIncompatible }

// CompareSegments checks that every result shares the first one's primary
// video codec, dimensions, pixel format and time base, and its primary audio
// codec, sample rate and channel count. The concat demuxer with -c copy
// produces broken output when any of these differ.
func CompareSegments(results []Result) error {
	if len(results) < 2 {
		return nil
	}
	base := fingerprint(results[0])
	for i := 1; i < len(results); i++ {
		current := fingerprint(results[i])
		for _, prop := range base {
			got := current.value(prop.name)
			if got != prop.value {
				return &MismatchError{Index: i, Property: prop.name, Want: prop.value, Got: got}
			}
		}
	}
	return nil
}

type property struct {
	name  string
	value string
}

type properties []property

func (p properties) value(name string) string {
	for _, prop := range p {
		if prop.name == name {
			return prop.value
		}
	}
	return ""
}

func fingerprint(r Result) properties {
	var props properties
	video, hasVideo := r.PrimaryVideo()
	props = append(props, property{"video stream", presence(hasVideo)})
	if hasVideo {
		props = append(props,
			property{"video codec", video.CodecName},
			property{"resolution", fmt.Sprintf("%dx%d", video.Width, video.Height)},
			property{"pixel format", video.PixFmt},
			property{"video time base", video.TimeBase},
		)
	}
	audio, hasAudio := r.PrimaryAudio()
	props = append(props, property{"audio stream", presence(hasAudio)})
	if hasAudio {
		props = append(props,
			property{"audio codec", audio.CodecName},
			property{"sample rate", audio.SampleRate},
			property{"channels", fmt.Sprint(audio.Channels)},
		)
	}
	return props
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
