package haptics

import "log/slog"

// LogHaptics is the cosmetic feedback sink. There is no device to
// vibrate on a server, so patterns are only logged; failures cannot
// happen and callers never wait on it.
type LogHaptics struct{}

func New() *LogHaptics {
	return &LogHaptics{}
}

func (*LogHaptics) Vibrate(pattern string) {
	slog.Debug("haptic feedback", slog.String("pattern", pattern))
}
