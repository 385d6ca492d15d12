package scene

import "math"

// DefaultDuration is used for scenes whose duration is missing or not positive.
const DefaultDuration = 5.0

// PlaceholderMedia is shown for scenes without an image.
const PlaceholderMedia = "assets/placeholder-image.png"

// Project is a storyboard as produced by the script generator
type Project struct {
	Info   ProjectInfo `json:"project_info" yaml:"project_info"`
	Scenes []Scene     `json:"storyboards" yaml:"storyboards"`
}

// ProjectInfo carries the storyboard header
type ProjectInfo struct {
	Title     string `json:"title" yaml:"title"`
	User      string `json:"user,omitempty" yaml:"user,omitempty"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Scene is one narrated segment of the video
type Scene struct {
	Number     int     `json:"scene_number,omitempty" yaml:"scene_number,omitempty"`
	Text       string  `json:"subtitles" yaml:"subtitles"`
	Duration   float64 `json:"duration,omitempty" yaml:"duration,omitempty"` // Seconds
	MediaRef   string  `json:"image,omitempty" yaml:"image,omitempty"`
	Audio      string  `json:"audio,omitempty" yaml:"audio,omitempty"`
	Transition string  `json:"transition_type,omitempty" yaml:"transition_type,omitempty"`
}

// EffectiveDuration returns the scene duration, substituting DefaultDuration
// for missing, non-positive or non-finite values.
func (s Scene) EffectiveDuration() float64 {
	if !HasDuration(s) {
		return DefaultDuration
	}
	return s.Duration
}

// HasDuration reports whether the scene carries a usable duration of its own.
func HasDuration(s Scene) bool {
	return s.Duration > 0 && !math.IsInf(s.Duration, 0) && !math.IsNaN(s.Duration)
}

// MediaOr returns the scene media reference or fallback when it has none.
func (s Scene) MediaOr(fallback string) string {
	if s.MediaRef == "" {
		return fallback
	}
	return s.MediaRef
}

// Clone returns a copy of the scene list that shares no backing array with scenes.
func Clone(scenes []Scene) []Scene {
	if scenes == nil {
		return nil
	}
	out := make([]Scene, len(scenes))
	copy(out, scenes)
	return out
}
