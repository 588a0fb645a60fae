package css_test

import (
	"testing"

	"cssmangle/css"
)

func TestDecodeCharset(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		want     string
		wantName string
	}{
		{
			name:     "no charset",
			in:       []byte(".a{}"),
			want:     ".a{}",
			wantName: "utf-8",
		},
		{
			name:     "utf-8 bom",
			in:       []byte("\xEF\xBB\xBF.a{}"),
			want:     ".a{}",
			wantName: "utf-8",
		},
		{
			name:     "windows-1251",
			in:       []byte("@charset \"windows-1251\";.\xE0{}"),
			want:     "@charset \"UTF-8\";.а{}",
			wantName: "windows-1251",
		},
		{
			name:     "label alias",
			in:       []byte("@charset \"latin1\";.\xE9{}"),
			want:     "@charset \"UTF-8\";.é{}",
			wantName: "windows-1252",
		},
		{
			name:     "utf-16le bom",
			in:       []byte{0xFF, 0xFE, '.', 0, 'a', 0, '{', 0, '}', 0},
			want:     ".a{}",
			wantName: "utf-16le",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, name, err := css.DecodeCharset(tt.in)
			if err != nil {
				t.Fatalf("DecodeCharset() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeCharset() = %q, want %q", got, tt.want)
			}
			if name != tt.wantName {
				t.Errorf("DecodeCharset() name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestDecodeCharset_Unknown(t *testing.T) {
	if _, _, err := css.DecodeCharset([]byte(`@charset "no-such-charset";`)); err == nil {
		t.Error("expected error for unknown charset")
	}
}
