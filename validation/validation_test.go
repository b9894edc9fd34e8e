package validation

import (
	"testing"

	"ytworkout/config"
	"ytworkout/errors"
)

func TestValidateURL(t *testing.T) {
	validator := NewValidator(&config.Config{})

	tests := []struct {
		name     string
		url      string
		wantKind errors.Kind
	}{
		{
			name:     "Empty URL",
			url:      "",
			wantKind: errors.KindInvalidInput,
		},
		{
			name:     "Whitespace only",
			url:      "   ",
			wantKind: errors.KindInvalidInput,
		},
		{
			name:     "Non-HTTP scheme",
			url:      "ftp://youtube.com/watch?v=dQw4w9WgXcQ",
			wantKind: errors.KindInvalidURL,
		},
		{
			name:     "JavaScript URL",
			url:      "javascript:alert(1)",
			wantKind: errors.KindInvalidURL,
		},
		{
			name:     "Non-YouTube host",
			url:      "https://example.com/watch?v=dQw4w9WgXcQ",
			wantKind: errors.KindInvalidURL,
		},
		{
			name: "Standard watch URL",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "Short URL",
			url:  "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name: "Shorts URL",
			url:  "https://www.youtube.com/shorts/dQw4w9WgXcQ",
		},
		{
			name: "Mobile URL",
			url:  "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateURL(tt.url)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("Unexpected error for %q: %v", tt.url, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error for %q", tt.url)
			}
			if !errors.IsKind(err, tt.wantKind) {
				t.Errorf("Expected kind %q, got %q", tt.wantKind, errors.KindOf(err))
			}
		})
	}
}
