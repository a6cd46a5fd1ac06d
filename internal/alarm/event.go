// Package alarm classifies CloudWatch alarm state change events into
// remediation categories and extracts the affected EC2 instance.
package alarm

// Detail mirrors the "detail" section of an EventBridge
// "CloudWatch Alarm State Change" event. Only the fields the
// classifier needs are mapped; everything else is ignored.
type Detail struct {
	AlarmName     string        `json:"alarmName"`
	State         State         `json:"state"`
	Configuration Configuration `json:"configuration"`
}

type State struct {
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type Configuration struct {
	Metrics []MetricEntry `json:"metrics"`
}

type MetricEntry struct {
	MetricStat MetricStat `json:"metricStat"`
}

type MetricStat struct {
	Metric Metric `json:"metric"`
}

type Metric struct {
	Namespace  string      `json:"namespace"`
	MetricName string      `json:"metricName"`
	Dimensions []Dimension `json:"dimensions"`
}

type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
