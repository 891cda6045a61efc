package lookup

import (
	"testing"

	apperrors "sharewatch/internal/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in       string
		wantID   string
		wantKind IdentifierKind
		wantErr  bool
	}{
		{"AAPL", "AAPL", KindTicker, false},
		{"aapl", "AAPL", KindTicker, false},
		{" msft ", "MSFT", KindTicker, false},
		{"US0378331005", "US0378331005", KindISIN, false},
		{"us0378331005", "US0378331005", KindISIN, false},
		{"12345", "", "", true},
		{"0", "", "", true},
		{"", "", "", true},
		{"   ", "", "", true},
		{"AAPL!", "", "", true},
		{"A B", "", "", true},
	}

	for _, tc := range cases {
		id, kind, err := Classify(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Classify(%q): expected error, got %q/%s", tc.in, id, kind)
			} else if !apperrors.Is(err, apperrors.ErrInvalidIdentifier) {
				t.Errorf("Classify(%q): error does not wrap ErrInvalidIdentifier: %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Classify(%q) failed: %v", tc.in, err)
			continue
		}
		if id != tc.wantID || kind != tc.wantKind {
			t.Errorf("Classify(%q) = %q/%s, want %q/%s", tc.in, id, kind, tc.wantID, tc.wantKind)
		}
	}
}
