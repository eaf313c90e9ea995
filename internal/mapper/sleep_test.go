package mapper

import (
	"encoding/json"
	"testing"

	"github.com/strideflow/strideflow/internal/provider"
)

func decodeSleep(t *testing.T, raw string) *provider.SleepPayload {
	t.Helper()
	var p provider.SleepPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	return &p
}

func TestSleepNoData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"empty dto", `{"dailySleepDTO":{}}`},
		{"rem only", `{"dailySleepDTO":{"remSleepSeconds":600}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := Sleep(testDate, decodeSleep(t, tt.raw)); s != nil {
				t.Errorf("mapped to %+v, want nil", s)
			}
		})
	}
	if s := Sleep(testDate, nil); s != nil {
		t.Errorf("nil payload mapped to %+v, want nil", s)
	}
}

// An explicit zero stage is real data, not absence.
func TestSleepExplicitZeroDeep(t *testing.T) {
	p := decodeSleep(t, `{"dailySleepDTO":{"deepSleepSeconds":0,"lightSleepSeconds":1200}}`)
	s := Sleep(testDate, p)
	if s == nil {
		t.Fatal("explicit zero deep sleep must still produce a session")
	}
	if !s.DeepSleep.IsZero() {
		t.Errorf("DeepSleep = %s, want 00:00:00", s.DeepSleep)
	}
	if got := s.LightSleep.String(); got != "00:20:00" {
		t.Errorf("LightSleep = %s, want 00:20:00", got)
	}
	if got := s.TotalSleep.String(); got != "00:20:00" {
		t.Errorf("TotalSleep = %s, want 00:20:00", got)
	}
}

func TestSleepStagesAndTotal(t *testing.T) {
	p := decodeSleep(t, `{"dailySleepDTO":{
		"deepSleepSeconds":5400,
		"lightSleepSeconds":14400,
		"remSleepSeconds":5340,
		"awakeSleepSeconds":1500,
		"sleepStartTimestampGMT":1773178200000,
		"sleepEndTimestampGMT":1773204840000,
		"averageRespirationValue":14.5,
		"avgSleepStress":12.0
	}}`)
	s := Sleep(testDate, p)
	if s == nil {
		t.Fatal("want session")
	}
	// Total counts deep+light+rem, never awake time.
	if got := s.TotalSleep.String(); got != "06:59:00" {
		t.Errorf("TotalSleep = %s, want 06:59:00", got)
	}
	if got := s.AwakeTime.String(); got != "00:25:00" {
		t.Errorf("AwakeTime = %s, want 00:25:00", got)
	}
	if s.StartTime == nil || s.EndTime == nil {
		t.Fatal("timestamps not mapped")
	}
	if !s.EndTime.After(*s.StartTime) {
		t.Errorf("EndTime %v not after StartTime %v", s.EndTime, s.StartTime)
	}
	if s.AvgRespiration == nil || *s.AvgRespiration != 14.5 {
		t.Errorf("AvgRespiration = %v, want 14.5", s.AvgRespiration)
	}
	if s.SleepStress == nil || *s.SleepStress != 12.0 {
		t.Errorf("SleepStress = %v, want 12", s.SleepStress)
	}
}

// Older responses carry the stages flat with legacy key names.
func TestSleepLegacyShape(t *testing.T) {
	p := decodeSleep(t, `{"deepSleep":3600,"lightSleep":10800,"remSleep":4500}`)
	s := Sleep(testDate, p)
	if s == nil {
		t.Fatal("want session from legacy shape")
	}
	if got := s.DeepSleep.String(); got != "01:00:00" {
		t.Errorf("DeepSleep = %s, want 01:00:00", got)
	}
	if got := s.TotalSleep.String(); got != "05:15:00" {
		t.Errorf("TotalSleep = %s, want 05:15:00", got)
	}
}

// When both key variants are present the *Seconds one wins.
func TestSleepKeyVariantPrecedence(t *testing.T) {
	p := decodeSleep(t, `{"dailySleepDTO":{"deepSleepSeconds":3600,"deepSleep":60,"lightSleepSeconds":600}}`)
	s := Sleep(testDate, p)
	if s == nil {
		t.Fatal("want session")
	}
	if got := s.DeepSleep.String(); got != "01:00:00" {
		t.Errorf("DeepSleep = %s, want 01:00:00", got)
	}
}
