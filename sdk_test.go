package tagfile

import (
	"errors"
	"testing"
)

func TestSdkVersion(t *testing.T) {
	v := Version20160100
	if v.Year() != 2016 || v.Major() != 1 || v.Minor() != 0 {
		t.Errorf("parts = %d/%d/%d, want 2016/1/0", v.Year(), v.Major(), v.Minor())
	}
	if v.String() != "20160100" {
		t.Errorf("String() = %q, want 20160100", v.String())
	}
	if NewSdkVersion(2016, 1, 0) != v {
		t.Error("NewSdkVersion(2016, 1, 0) should equal Version20160100")
	}
}

func TestParseSdkVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    SdkVersion
		wantErr bool
	}{
		{"20160100", Version20160100, false},
		{"20150201", NewSdkVersion(2015, 2, 1), false},
		{"2016010", 0, true},
		{"2016a100", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSdkVersion(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrFormat) {
					t.Errorf("ParseSdkVersion(%q) error = %v, want ErrFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSdkVersion(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSdkVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
