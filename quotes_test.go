package perform

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/perform/date"
)

// quoteServer serves a fixed JSON payload for ad-hoc quote tests.
func quoteServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchQuote(t *testing.T) {
	testCases := []struct {
		name      string
		payload   string
		path      string
		want      float64
		expectErr bool
	}{
		{
			name:    "Plain number",
			payload: `{"data":{"last":24010.6}}`,
			path:    `$.data.last`,
			want:    24010.6,
		},
		{
			name:    "Wildcard list of one answer",
			payload: `{"rows":[{"close":1514.2}]}`,
			path:    `$.rows[*].close`,
			want:    1514.2,
		},
		{
			name:    "Localized string price",
			payload: `{"last":"24 010,60"}`,
			path:    `$.last`,
			want:    24010.6,
		},
		{
			name:      "Not a number",
			payload:   `{"last":true}`,
			path:      `$.last`,
			expectErr: true,
		},
		{
			name:      "Unparseable string",
			payload:   `{"last":"closed"}`,
			path:      `$.last`,
			expectErr: true,
		},
		{
			name:      "Zero quote",
			payload:   `{"last":0}`,
			path:      `$.last`,
			expectErr: true,
		},
		{
			name:      "Path misses",
			payload:   `{"last":100}`,
			path:      `$.nope`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := quoteServer(t, tc.payload)
			src := QuoteSource{ID: "NSEI.INDX", URL: srv.URL, Path: tc.path}

			point, err := FetchQuote(srv.Client(), src)
			if (err != nil) != tc.expectErr {
				t.Fatalf("FetchQuote(%q) returned error: %v, want error: %v", tc.path, err, tc.expectErr)
			}
			if tc.expectErr {
				return
			}
			if point.Price != tc.want {
				t.Errorf("FetchQuote(%q) price = %v, want %v", tc.path, point.Price, tc.want)
			}
			if point.ID != src.ID {
				t.Errorf("FetchQuote(%q) id = %q, want %q", tc.path, point.ID, src.ID)
			}
			// Ad-hoc quotes are always stamped on the fetch day.
			if point.On != date.Today() {
				t.Errorf("FetchQuote(%q) on = %s, want today", tc.path, point.On)
			}
		})
	}
}

func TestFetchQuoteInvalidID(t *testing.T) {
	if _, err := FetchQuote(nil, QuoteSource{ID: "broken", URL: "http://unused", Path: "$"}); err == nil {
		t.Errorf("FetchQuote() accepted an invalid instrument id, want error")
	}
}

func TestFetchQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	src := QuoteSource{ID: "NSEI.INDX", URL: srv.URL, Path: "$.last"}
	if _, err := FetchQuote(srv.Client(), src); err == nil {
		t.Errorf("FetchQuote() on a 503 succeeded, want error")
	}
}
