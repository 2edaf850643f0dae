package formatter

import "fmt"

// ANSI color codes for terminal output
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Gray   = "\033[90m"
)

// Color helpers
func Colorize(color, text string) string {
	return fmt.Sprintf("%s%s%s", color, text, Reset)
}

func BoldColorize(color, text string) string {
	return fmt.Sprintf("%s%s%s%s", Bold, color, text, Reset)
}

// LevelBadge colours a Wazuh rule level: 12 and above is critical, 7 and
// above is high.
func LevelBadge(level string) string {
	var n int
	if _, err := fmt.Sscanf(level, "%d", &n); err != nil {
		return level
	}

	switch {
	case n >= 12:
		return BoldColorize(Red, level)
	case n >= 7:
		return BoldColorize(Yellow, level)
	default:
		return Colorize(Green, level)
	}
}
