package alarm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		alarmName string
		want      Category
	}{
		{"high cpu", "EC2-High-CPU-Utilization", CategoryHighCPU},
		{"cpu uppercase", "HIGH CPU ALARM", CategoryHighCPU},
		{"status check", "StatusCheckFailed", CategoryStatusCheckFailed},
		{"status lowercase", "instance status alarm", CategoryStatusCheckFailed},
		{"unexpected stop", "UnexpectedStop-i-abc", CategoryUnexpectedStop},
		{"cpu wins over stop", "cpu-spike-then-stop", CategoryHighCPU},
		{"status wins over stop", "status-and-stop", CategoryStatusCheckFailed},
		{"no match", "DiskSpaceLow", CategoryUnknown},
		{"empty name", "", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Detail{AlarmName: tt.alarmName})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_IgnoresState(t *testing.T) {
	detail := Detail{
		AlarmName: "StatusCheckFailed",
		State:     State{Value: "OK", Reason: "recovered"},
	}

	assert.Equal(t, CategoryStatusCheckFailed, Classify(detail))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "EC2_HIGH_CPU", CategoryHighCPU.String())
	assert.Equal(t, "EC2_STATUS_CHECK_FAILED", CategoryStatusCheckFailed.String())
	assert.Equal(t, "EC2_UNEXPECTED_STOP", CategoryUnexpectedStop.String())
	assert.Equal(t, "UNKNOWN", CategoryUnknown.String())
}

func TestExtractInstanceID(t *testing.T) {
	detail := Detail{
		Configuration: Configuration{
			Metrics: []MetricEntry{
				{MetricStat: MetricStat{Metric: Metric{
					Namespace:  "AWS/EC2",
					MetricName: "StatusCheckFailed",
					Dimensions: []Dimension{
						{Name: "AutoScalingGroupName", Value: "web-asg"},
						{Name: "InstanceId", Value: "i-1234567890abcdef0"},
					},
				}}},
			},
		},
	}

	assert.Equal(t, "i-1234567890abcdef0", ExtractInstanceID(detail))
}

func TestExtractInstanceID_FirstMetricOnly(t *testing.T) {
	detail := Detail{
		Configuration: Configuration{
			Metrics: []MetricEntry{
				{MetricStat: MetricStat{Metric: Metric{
					Dimensions: []Dimension{{Name: "QueueName", Value: "jobs"}},
				}}},
				{MetricStat: MetricStat{Metric: Metric{
					Dimensions: []Dimension{{Name: "InstanceId", Value: "i-second"}},
				}}},
			},
		},
	}

	assert.Empty(t, ExtractInstanceID(detail))
}

func TestExtractInstanceID_NoMetrics(t *testing.T) {
	assert.Empty(t, ExtractInstanceID(Detail{}))
	assert.Empty(t, ExtractInstanceID(Detail{
		Configuration: Configuration{Metrics: []MetricEntry{{}}},
	}))
}

func TestDetail_UnmarshalStateChangePayload(t *testing.T) {
	payload := []byte(`{
		"alarmName": "StatusCheckFailed",
		"state": {"value": "ALARM", "reason": "StatusCheckFailed > 0 for 1 datapoints"},
		"configuration": {
			"metrics": [{
				"metricStat": {
					"metric": {
						"namespace": "AWS/EC2",
						"metricName": "StatusCheckFailed",
						"dimensions": [{"name": "InstanceId", "value": "i-1234567890abcdef0"}]
					},
					"period": 60,
					"stat": "Minimum"
				}
			}]
		}
	}`)

	var detail Detail
	require.NoError(t, json.Unmarshal(payload, &detail))

	assert.Equal(t, CategoryStatusCheckFailed, Classify(detail))
	assert.Equal(t, "i-1234567890abcdef0", ExtractInstanceID(detail))
	assert.Equal(t, "ALARM", detail.State.Value)
}
