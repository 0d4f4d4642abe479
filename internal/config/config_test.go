package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.ProfileName != ProfileConservative {
		t.Errorf("ProfileName = %q, want %q", s.ProfileName, ProfileConservative)
	}
	if s.CandidateCount != 10 {
		t.Errorf("CandidateCount = %d, want 10", s.CandidateCount)
	}
	if s.ClipDuration() != 30*time.Second {
		t.Errorf("ClipDuration() = %v, want 30s", s.ClipDuration())
	}
	if s.OutputName != "mashup.mp3" {
		t.Errorf("OutputName = %q, want mashup.mp3", s.OutputName)
	}
	if s.FetchBackend != BackendYTDLP {
		t.Errorf("FetchBackend = %q, want %q", s.FetchBackend, BackendYTDLP)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CandidateCount != DefaultSettings().CandidateCount {
		t.Errorf("CandidateCount = %d, want default", s.CandidateCount)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"profile": "aggressive", "candidate_count": 25, "write_tracklist": true}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ProfileName != ProfileAggressive {
		t.Errorf("ProfileName = %q, want aggressive", s.ProfileName)
	}
	if s.CandidateCount != 25 {
		t.Errorf("CandidateCount = %d, want 25", s.CandidateCount)
	}
	if !s.WriteTracklist {
		t.Error("WriteTracklist should be true")
	}
	// Unset fields keep defaults
	if s.ClipSeconds != 30 {
		t.Errorf("ClipSeconds = %d, want default 30", s.ClipSeconds)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "profile: aggressive\nclip_seconds: 45\nfetch_backend: native\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ClipSeconds != 45 {
		t.Errorf("ClipSeconds = %d, want 45", s.ClipSeconds)
	}
	if s.FetchBackend != BackendNative {
		t.Errorf("FetchBackend = %q, want native", s.FetchBackend)
	}
	if s.CandidateCount != 10 {
		t.Errorf("CandidateCount = %d, want default 10", s.CandidateCount)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			s := DefaultSettings()
			s.OutputName = "party.mp3"
			s.ProfileName = ProfileAggressive

			if err := s.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.OutputName != "party.mp3" || got.ProfileName != ProfileAggressive {
				t.Errorf("round trip lost values: %+v", got)
			}
		})
	}
}

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"conservative", ProfileConservative},
		{"AGGRESSIVE", ProfileAggressive},
		{" aggressive ", ProfileAggressive},
		{"", ProfileConservative},
		{"reckless", ProfileConservative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LookupProfile(tt.name).Name; got != tt.want {
				t.Errorf("LookupProfile(%q).Name = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestProfile_RetryPolicy(t *testing.T) {
	p := LookupProfile(ProfileConservative)
	policy := p.RetryPolicy()

	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.Delay != 2*time.Second {
		t.Errorf("Delay = %v, want 2s", policy.Delay)
	}
	if policy.AttemptTimeout != p.AttemptTimeout {
		t.Errorf("AttemptTimeout = %v, want %v", policy.AttemptTimeout, p.AttemptTimeout)
	}
}

func TestProfiles_AggressiveTriesMoreVariants(t *testing.T) {
	c := LookupProfile(ProfileConservative)
	a := LookupProfile(ProfileAggressive)
	if len(a.QueryVariants) <= len(c.QueryVariants) {
		t.Errorf("aggressive variants (%d) should exceed conservative (%d)", len(a.QueryVariants), len(c.QueryVariants))
	}
	if a.Pacing >= c.Pacing {
		t.Errorf("aggressive pacing %v should be shorter than conservative %v", a.Pacing, c.Pacing)
	}
}
