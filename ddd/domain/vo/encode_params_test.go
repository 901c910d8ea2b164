package vo

import "testing"

func TestResolveDimensions(t *testing.T) {
	cases := map[string]string{
		"1080p": "1920x1080",
		"720p":  "1280x720",
		"480p":  "854x480",
		"360p":  "640x360",
	}
	for name, want := range cases {
		if got := ResolveDimensions(name); got != want {
			t.Errorf("ResolveDimensions(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestResolveDimensionsUnknownFallsBack(t *testing.T) {
	for _, name := range []string{"4k", "240p", ""} {
		if got := ResolveDimensions(name); got != "640x360" {
			t.Errorf("ResolveDimensions(%q) = %q, want default 640x360", name, got)
		}
	}
}

func TestNewEncodeParams(t *testing.T) {
	params, err := NewEncodeParams("720p", 18)
	if err != nil {
		t.Fatalf("NewEncodeParams failed: %v", err)
	}
	if params.Resolution != "1280x720" || params.CRF != 18 {
		t.Errorf("unexpected params %+v", params)
	}
}

func TestNewEncodeParamsCrfBounds(t *testing.T) {
	for _, crf := range []int{MinCRF, MaxCRF, DefaultCRF} {
		if _, err := NewEncodeParams("360p", crf); err != nil {
			t.Errorf("crf %d should be accepted: %v", crf, err)
		}
	}
	for _, crf := range []int{-1, 52, 100} {
		if _, err := NewEncodeParams("360p", crf); err == nil {
			t.Errorf("crf %d should be rejected", crf)
		}
	}
}
