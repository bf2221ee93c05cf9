package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kompasshr/kompasshr/internal/pipeline"
	"github.com/kompasshr/kompasshr/internal/sqlgate"
)

func postAsk(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAskReturnsAnswer(t *testing.T) {
	answerer := &fakeAnswerer{result: pipeline.Result{
		Statement: "SELECT Name FROM dbo.Employees",
		Answer:    "1. Alice\n2. Bob",
		Rows:      []map[string]any{{"Name": "Alice"}, {"Name": "Bob"}},
	}}
	h := NewHandler(testConfig(), Dependencies{Pipeline: answerer})

	rr := postAsk(t, h, `{"question":"who works here?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	if answerer.asked != "who works here?" {
		t.Fatalf("asked = %q", answerer.asked)
	}

	var body askResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Answer != "1. Alice\n2. Bob" {
		t.Fatalf("answer = %q", body.Answer)
	}
	if body.SQL != "" || body.Rows != nil {
		t.Fatalf("sql/rows should be omitted by default, got %+v", body)
	}
}

func TestAskShowSQLAndRows(t *testing.T) {
	answerer := &fakeAnswerer{result: pipeline.Result{
		Statement: "SELECT Name FROM dbo.Employees",
		Answer:    "Alice",
		Rows:      []map[string]any{{"Name": "Alice"}},
	}}
	h := NewHandler(testConfig(), Dependencies{Pipeline: answerer})

	rr := postAsk(t, h, `{"question":"q","show_sql":true,"show_rows":true}`)
	var body askResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.SQL != "SELECT Name FROM dbo.Employees" {
		t.Fatalf("sql = %q", body.SQL)
	}
	if len(body.Rows) != 1 {
		t.Fatalf("rows = %v", body.Rows)
	}
}

func TestAskValidatesRequestBody(t *testing.T) {
	h := NewHandler(testConfig(), Dependencies{Pipeline: &fakeAnswerer{}})

	cases := []struct {
		body string
		code string
	}{
		{`{`, "INVALID_JSON"},
		{`{"question":"q","unknown":true}`, "INVALID_JSON"},
		{`{"question":"   "}`, "QUESTION_REQUIRED"},
	}
	for _, tc := range cases {
		rr := postAsk(t, h, tc.body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", tc.body, rr.Code)
		}
		var envelope map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if envelope["error_code"] != tc.code {
			t.Fatalf("body %q: error_code = %v, want %s", tc.body, envelope["error_code"], tc.code)
		}
	}
}

func TestAskMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		code     string
	}{
		{sqlgate.ErrNotAReadQuery, http.StatusBadRequest, "SQL_REJECTED"},
		{fmt.Errorf("%w: %q", sqlgate.ErrForbiddenKeyword, "drop"), http.StatusBadRequest, "SQL_REJECTED"},
		{fmt.Errorf("%w: bad gateway", pipeline.ErrGeneration), http.StatusBadGateway, "GENERATION_FAILED"},
		{fmt.Errorf("%w: invalid column", pipeline.ErrExecution), http.StatusBadRequest, "QUERY_EXECUTION_FAILED"},
	}
	for _, tc := range cases {
		h := NewHandler(testConfig(), Dependencies{Pipeline: &fakeAnswerer{err: tc.err}})
		rr := postAsk(t, h, `{"question":"q"}`)
		if rr.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rr.Code, tc.status)
		}
		var envelope map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if envelope["error_code"] != tc.code {
			t.Fatalf("%v: error_code = %v, want %s", tc.err, envelope["error_code"], tc.code)
		}
	}
}

func TestAskNotConfigured(t *testing.T) {
	h := NewHandler(testConfig(), Dependencies{})
	rr := postAsk(t, h, `{"question":"q"}`)
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}
