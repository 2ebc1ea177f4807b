package body

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/indieinfra/safari-admin/config"
)

type deletePayload struct {
	Filename string `json:"filename"`
}

func testBodyConfig() *config.Config {
	return &config.Config{
		Server: config.Server{
			Limits: config.ServerLimits{
				MaxPayloadSize:  64,
				MaxFileSize:     512,
				MaxMultipartMem: 2048,
			},
		},
	}
}

func TestReadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(`{"filename":"b3.jpg","extra":1}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	var got deletePayload
	if !ReadJSON(testBodyConfig(), rr, req, &got) {
		t.Fatalf("expected decode to succeed, got %d %s", rr.Code, rr.Body.String())
	}
	if got.Filename != "b3.jpg" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestReadJSONRejections(t *testing.T) {
	cases := []struct {
		name string
		ct   string
		body string
		code int
		want string
	}{
		{name: "invalid", ct: "application/json", body: `{"filename":`, code: http.StatusBadRequest, want: "Invalid JSON body"},
		{name: "empty", ct: "application/json", body: ``, code: http.StatusBadRequest, want: "empty"},
		{name: "trailing", ct: "application/json", body: `{"filename":"a"} {"filename":"b"}`, code: http.StatusBadRequest, want: "trailing"},
		{name: "too large", ct: "application/json", body: `{"filename":"` + strings.Repeat("a", 128) + `"}`, code: http.StatusBadRequest, want: "too large"},
		{name: "wrong content type", ct: "text/plain", body: `{}`, code: http.StatusBadRequest, want: "only"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.ct)
			rr := httptest.NewRecorder()

			var got deletePayload
			if ReadJSON(testBodyConfig(), rr, req, &got) {
				t.Fatalf("expected failure")
			}
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, rr.Body.String())
			}
		})
	}
}
