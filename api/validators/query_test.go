package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{name: "absent uses fallback", url: "/?other=1", want: 25},
		{name: "blank uses fallback", url: "/?limit=", want: 25},
		{name: "in range", url: "/?limit=80", want: 80},
		{name: "non numeric", url: "/?limit=ten", wantErr: true},
		{name: "below range", url: "/?limit=0", wantErr: true},
		{name: "above range", url: "/?limit=101", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			got, err := ParseQueryInt(req, "limit", 25, 1, 100)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
