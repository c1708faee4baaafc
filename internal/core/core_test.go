package core

import "testing"

func TestPlatformValid(t *testing.T) {
	valid := []Platform{PlatformTwitter, PlatformInstagram, PlatformLinkedIn}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []Platform{"", "facebook", "Twitter", "TWITTER", "tiktok"}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestPlatformsOrder(t *testing.T) {
	platforms := Platforms()
	if len(platforms) != 3 {
		t.Fatalf("expected 3 platforms, got %d", len(platforms))
	}
	if platforms[0] != PlatformTwitter || platforms[1] != PlatformInstagram || platforms[2] != PlatformLinkedIn {
		t.Errorf("unexpected platform order: %v", platforms)
	}
}

func TestBrandVoiceValid(t *testing.T) {
	valid := []BrandVoice{VoiceFriendly, VoiceLuxury, VoicePlayful, VoiceClinical, VoiceCasual}
	for _, v := range valid {
		if !v.Valid() {
			t.Errorf("expected %q to be valid", v)
		}
	}

	if BrandVoice("aggressive").Valid() {
		t.Error("expected unknown voice to be invalid")
	}
	if BrandVoice("").Valid() {
		t.Error("expected empty voice to be invalid")
	}
}
