package buckets

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		bucket  Bucket
		wantErr bool
	}{
		{"ual_minute_measurement", UALMinuteMeasurement, false},
		{"ual_hour_measurement", UALHourMeasurement, false},
		{"lubw_hour", LUBWHour, false},
		{"unknown_bucket", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Lookup(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b != tt.bucket {
				t.Errorf("got %q, want %q", b, tt.bucket)
			}
		})
	}
}
