package alarm

import "strings"

// Category is the closed set of remediation categories an alarm can map to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryHighCPU
	CategoryStatusCheckFailed
	CategoryUnexpectedStop
)

// String returns the wire value used in incident records and responses.
func (c Category) String() string {
	switch c {
	case CategoryHighCPU:
		return "EC2_HIGH_CPU"
	case CategoryStatusCheckFailed:
		return "EC2_STATUS_CHECK_FAILED"
	case CategoryUnexpectedStop:
		return "EC2_UNEXPECTED_STOP"
	default:
		return "UNKNOWN"
	}
}

// Classify maps an alarm to exactly one remediation category by
// case-insensitive substring matching on the alarm name. Matching is
// first-match-wins in a fixed priority order, so a name containing both
// "cpu" and "stop" classifies as high CPU. Classification depends on the
// alarm name alone, never on the alarm state.
func Classify(detail Detail) Category {
	name := strings.ToLower(detail.AlarmName)

	switch {
	case strings.Contains(name, "cpu"):
		return CategoryHighCPU
	case strings.Contains(name, "status"):
		return CategoryStatusCheckFailed
	case strings.Contains(name, "stop"):
		return CategoryUnexpectedStop
	default:
		return CategoryUnknown
	}
}

// ExtractInstanceID returns the value of the first dimension named
// "InstanceId" on the alarm's first metric entry, or "" when the event
// carries no metrics, no dimensions, or no matching dimension. An absent
// instance id is an expected outcome, not an error.
func ExtractInstanceID(detail Detail) string {
	metrics := detail.Configuration.Metrics
	if len(metrics) == 0 {
		return ""
	}

	for _, d := range metrics[0].MetricStat.Metric.Dimensions {
		if d.Name == "InstanceId" {
			return d.Value
		}
	}

	return ""
}
