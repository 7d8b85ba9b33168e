package weatherfeed

import "strings"

type response struct {
	Condition string `json:"condition"`
}

// normalized maps feed condition labels onto the condition set the
// routing model understands. Unknown labels fall back to clear.
func (r response) normalized() string {
	switch c := strings.ToLower(strings.TrimSpace(r.Condition)); {
	case strings.Contains(c, "storm"), strings.Contains(c, "tormenta"), strings.Contains(c, "thunder"):
		return "storm"
	case strings.Contains(c, "rain"), strings.Contains(c, "lluvia"), strings.Contains(c, "drizzle"):
		return "rain"
	case strings.Contains(c, "fog"), strings.Contains(c, "niebla"), strings.Contains(c, "mist"):
		return "fog"
	case strings.Contains(c, "wind"), strings.Contains(c, "viento"):
		return "high_wind"
	default:
		return "clear"
	}
}
