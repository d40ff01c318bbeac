package langdetect

import "testing"

func TestDetect(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "english",
			text: "The quick brown fox jumps over the lazy dog and runs away through the fields.",
			want: "en",
			ok:   true,
		},
		{
			name: "french",
			text: "Les enfants jouaient dans le jardin pendant que leur mère préparait le dîner.",
			want: "fr",
			ok:   true,
		},
		{
			name: "german",
			text: "Der schnelle braune Fuchs springt über den faulen Hund und läuft davon.",
			want: "de",
			ok:   true,
		},
		{
			name: "empty",
			text: "",
			want: "",
			ok:   false,
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.Detect(tt.text)
			if ok != tt.ok {
				t.Fatalf("Detect(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if code != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, code, tt.want)
			}
		})
	}
}

func TestDetectNilDetector(t *testing.T) {
	var d *Detector
	if _, ok := d.Detect("hello world"); ok {
		t.Error("nil detector should never report a detection")
	}
}
