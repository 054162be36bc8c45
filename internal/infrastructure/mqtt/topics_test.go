package mqtt

import "testing"

const testDeviceKey = "7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b"

func TestTopics_Builders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name    string
		builder func() string
		want    string
	}{
		{
			name:    "sensor data",
			builder: func() string { return topics.SensorData(testDeviceKey) },
			want:    "devices/" + testDeviceKey + "/sensor/data",
		},
		{
			name:    "pump start",
			builder: func() string { return topics.PumpStart(testDeviceKey) },
			want:    "devices/" + testDeviceKey + "/pump/start",
		},
		{
			name:    "threshold update",
			builder: func() string { return topics.ThresholdUpdate(testDeviceKey) },
			want:    "devices/" + testDeviceKey + "/thresholds/update",
		},
		{
			name:    "gateway status",
			builder: func() string { return topics.GatewayStatus() },
			want:    "waterlevel/gateway/status",
		},
		{
			name:    "all sensor data wildcard",
			builder: func() string { return topics.AllSensorData() },
			want:    "devices/+/sensor/data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.want {
				t.Errorf("topic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopics_DeviceKeyFromSensorTopic(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{
			name:  "valid sensor topic",
			topic: "devices/" + testDeviceKey + "/sensor/data",
			want:  testDeviceKey,
		},
		{
			name:  "command topic is not a sensor topic",
			topic: "devices/" + testDeviceKey + "/pump/start",
			want:  "",
		},
		{
			name:  "wrong prefix",
			topic: "sensors/" + testDeviceKey + "/sensor/data",
			want:  "",
		},
		{
			name:  "too few segments",
			topic: "devices/sensor/data",
			want:  "",
		},
		{
			name:  "empty topic",
			topic: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topics.DeviceKeyFromSensorTopic(tt.topic); got != tt.want {
				t.Errorf("DeviceKeyFromSensorTopic(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}
