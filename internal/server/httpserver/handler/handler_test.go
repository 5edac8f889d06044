package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/memory"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/telemetry/logger"
)

type testEnv struct {
	handler *Handler
	svc     *service.RecordService
	engine  *storage.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := service.NewRecordService(memory.New(), nil, service.WithLogger(logger.Discard()))

	cfg := storage.DefaultConfig(t.TempDir())
	cfg.Logger = logger.Discard()
	engine, err := storage.New(cfg, svc)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	h := New(Config{
		Cabinet:   svc,
		Snapshots: engine,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "filecabinet_records 0\n")
		}),
		Logger:  logger.Discard(),
		Version: "test",
	})
	return &testEnv{handler: h, svc: svc, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-test"))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return e.do(t, method, target, body, "Content-Type", "application/json")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (Response, T) {
	t.Helper()
	var raw struct {
		Response
		Data    json.RawMessage `json:"data"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	var data T
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			t.Fatalf("decode data %s: %v", raw.Data, err)
		}
	}
	resp := raw.Response
	if len(raw.Details) > 0 {
		var details map[string]any
		_ = json.Unmarshal(raw.Details, &details)
		resp.Details = details
	}
	return resp, data
}

func validRequest(first, last string) map[string]any {
	return map[string]any{
		"first_name":        first,
		"last_name":         last,
		"date_of_birth":     "06/15/1990",
		"sex":               "m",
		"number_of_reviews": 3,
		"salary":            "1500.25",
	}
}

func (e *testEnv) create(t *testing.T, first, last string) int {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/records", validRequest(first, last))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, data := decode[CreateRecordResponse](t, rec)
	return data.ID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp, data := decode[map[string]string](t, rec)
	if resp.Code != "OK" || resp.RequestID != "req-test" {
		t.Fatalf("envelope = %+v", resp)
	}
	if data["status"] != "healthy" || data["version"] != "test" {
		t.Fatalf("data = %v", data)
	}
}

func TestMetricsRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "filecabinet_records") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRecordLifecycle(t *testing.T) {
	env := newTestEnv(t)

	id := env.create(t, "Jon", "Smith")
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}

	rec := env.do(t, http.MethodGet, "/records/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	_, got := decode[RecordResponse](t, rec)
	if got.FirstName != "Jon" || got.Sex != "M" || got.DateOfBirth != "06/15/1990" || got.Salary.String() != "1500.25" {
		t.Fatalf("record = %+v", got)
	}

	upd := validRequest("Jonathan", "Smith")
	upd["number_of_reviews"] = 9
	rec = env.doJSON(t, http.MethodPut, "/records/1", upd)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, got = decode[RecordResponse](t, rec)
	if got.FirstName != "Jonathan" || got.NumberOfReviews != 9 {
		t.Fatalf("updated = %+v", got)
	}

	rec = env.do(t, http.MethodDelete, "/records/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/records/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	resp, _ := decode[any](t, rec)
	if resp.Code != domain.ErrRecordNotFound.Code {
		t.Fatalf("code = %q", resp.Code)
	}
	if rec.Header().Get("X-Error-Code") != domain.ErrRecordNotFound.Code {
		t.Fatalf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
	}

	// Freed ids are not reused.
	if id := env.create(t, "Ann", "Lee"); id != 2 {
		t.Fatalf("id after remove = %d, want 2", id)
	}
}

func TestCreateRecord_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
		field    string
	}{
		{"invalid json", `{"first_name":`, domain.ErrBadRequest.Code, ""},
		{"unknown field", `{"nickname":"J"}`, domain.ErrBadRequest.Code, ""},
		{"bad date", `{"first_name":"Jon","last_name":"Smith","date_of_birth":"1990-01-01","sex":"M","salary":"1"}`, domain.ErrBadRequest.Code, ""},
		{"short name", `{"first_name":"J","last_name":"Smith","date_of_birth":"01/01/1990","sex":"M","salary":"1"}`, domain.ErrRecordValidation.Code, "firstName"},
		{"negative salary", `{"first_name":"Jon","last_name":"Smith","date_of_birth":"01/01/1990","sex":"M","salary":"-1"}`, domain.ErrRecordValidation.Code, "salary"},
		{"bad sex", `{"first_name":"Jon","last_name":"Smith","date_of_birth":"01/01/1990","sex":"X","salary":"1"}`, domain.ErrRecordValidation.Code, "sex"},
		{"salary exponent too large", `{"first_name":"Jon","last_name":"Smith","date_of_birth":"01/01/1990","sex":"M","salary":"1e100000000"}`, domain.ErrBadRequest.Code, ""},
		{"salary scale too large", `{"first_name":"Jon","last_name":"Smith","date_of_birth":"01/01/1990","sex":"M","salary":"0.00000000000000000000000000001"}`, domain.ErrBadRequest.Code, ""},
		{"control character in name", `{"first_name":"Jo\u0000n","last_name":"Smith","date_of_birth":"01/01/1990","sex":"M","salary":"1"}`, domain.ErrRecordValidation.Code, "firstName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/records", strings.NewReader(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			resp, _ := decode[any](t, rec)
			if resp.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if tt.field != "" {
				details, _ := resp.Details.(map[string]any)
				if details["field"] != tt.field {
					t.Fatalf("details = %v, want field %q", resp.Details, tt.field)
				}
			}
		})
	}
}

func TestUpdateRecord_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSON(t, http.MethodPut, "/records/42", validRequest("Jon", "Smith"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBadPathID(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/records/abc", "/records/0", "/records/-3"} {
		rec := env.do(t, http.MethodGet, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d", target, rec.Code)
		}
	}
}

func TestListAndFind(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Jon", "Smith")
	env.create(t, "Ann", "Smith")
	env.create(t, "jon", "Lee")

	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{1, 2, 3}},
		{"?firstname=JON", []int{1, 3}},
		{"?lastname=smith", []int{1, 2}},
		{"?dateofbirth=06/15/1990", []int{1, 2, 3}},
		{"?dateofbirth=01/01/2000", []int{}},
		{"?firstname=nobody", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/records"+tt.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			_, data := decode[ListRecordsResponse](t, rec)
			if data.Total != len(tt.want) || len(data.Items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(data.Items), len(tt.want))
			}
			for i, id := range tt.want {
				if data.Items[i].ID != id {
					t.Fatalf("items[%d].ID = %d, want %d", i, data.Items[i].ID, id)
				}
			}
		})
	}

	if rec := env.do(t, http.MethodGet, "/records?firstname=a&lastname=b", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("two selectors status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/records?dateofbirth=yesterday", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", rec.Code)
	}
}

func TestStat(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Jon", "Smith")

	rec := env.do(t, http.MethodGet, "/stat", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	_, stat := decode[service.Stat](t, rec)
	if stat.Count != 1 || stat.Profile != "default" {
		t.Fatalf("stat = %+v", stat)
	}
}

func TestExportImport(t *testing.T) {
	for _, format := range []string{"csv", "xml"} {
		t.Run(format, func(t *testing.T) {
			src := newTestEnv(t)
			src.create(t, "Jon", "Smith")
			src.create(t, "Ann", "Lee")

			rec := src.do(t, http.MethodGet, "/export?format="+format, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("export status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Header().Get("Content-Disposition"), "."+format) {
				t.Fatalf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
			}
			exported := rec.Body.Bytes()

			dst := newTestEnv(t)
			rec = dst.do(t, http.MethodPost, "/import?format="+format, bytes.NewReader(exported))
			if rec.Code != http.StatusOK {
				t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
			}
			_, res := decode[RestoreResponse](t, rec)
			if res.Accepted != 2 || res.Rejected != 0 {
				t.Fatalf("import result = %+v", res)
			}

			want, _ := src.svc.GetAll(context.Background())
			got, _ := dst.svc.GetAll(context.Background())
			if len(got) != len(want) {
				t.Fatalf("imported %d records, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].ID != want[i].ID || !got[i].Fields.Equal(want[i].Fields) {
					t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestImport_Rejections(t *testing.T) {
	env := newTestEnv(t)
	body := strings.Join([]string{
		"Id,First Name,Last Name,Date of Birth,Sex,Number of Reviews,Salary",
		"1,Jon,Smith,01/01/1990,M,1,100",
		"2,J,Smith,01/01/1990,M,1,100",
		"3,Ann",
	}, "\n")

	rec := env.do(t, http.MethodPost, "/import", strings.NewReader(body), "Content-Type", "text/csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, res := decode[RestoreResponse](t, rec)
	if res.Accepted != 1 || res.Rejected != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Rejections[0].ID != 2 || res.Rejections[1].ID != 3 {
		t.Fatalf("rejections = %+v", res.Rejections)
	}
}

func TestImport_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/import?format=json", strings.NewReader("[]"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/import?format=xml", strings.NewReader("<records><record"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed xml status = %d", rec.Code)
	}
	resp, _ := decode[any](t, rec)
	if resp.Code != domain.ErrMalformedRecord.Code {
		t.Fatalf("code = %q", resp.Code)
	}

	small := New(Config{Cabinet: env.svc, Logger: logger.Discard(), MaxImportBytes: 16})
	req := httptest.NewRequest(http.MethodPost, "/import?format=csv",
		strings.NewReader("Id,First Name,Last Name,Date of Birth,Sex,Number of Reviews,Salary\n"))
	out := httptest.NewRecorder()
	small.ServeHTTP(out, req)
	if out.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized status = %d, body = %s", out.Code, out.Body.String())
	}
}

func TestAdminSnapshots(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Jon", "Smith")
	env.create(t, "Ann", "Lee")

	rec := env.do(t, http.MethodPost, "/admin/v1/snapshots", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, info := decode[struct {
		ID          string `json:"id"`
		RecordCount int    `json:"record_count"`
	}](t, rec)
	if info.ID == "" || info.RecordCount != 2 {
		t.Fatalf("info = %+v", info)
	}

	rec = env.do(t, http.MethodGet, "/admin/v1/snapshots", nil)
	_, list := decode[struct {
		Snapshots []struct {
			ID string `json:"id"`
		} `json:"snapshots"`
	}](t, rec)
	if len(list.Snapshots) != 1 || list.Snapshots[0].ID != info.ID {
		t.Fatalf("list = %+v", list)
	}

	// Diverge from the archive, then restore it.
	if rec := env.do(t, http.MethodDelete, "/records/1", nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/admin/v1/snapshots/restore", strings.NewReader(`{"id":"`+info.ID+`"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, body = %s", rec.Code, rec.Body.String())
	}
	_, res := decode[RestoreResponse](t, rec)
	if res.Accepted != 2 || res.Snapshot == nil || res.Snapshot.ID != info.ID {
		t.Fatalf("restore = %+v", res)
	}
	if _, err := env.svc.GetRecord(context.Background(), 1); err != nil {
		t.Fatalf("record 1 not restored: %v", err)
	}

	// Empty body restores the latest archive.
	rec = env.do(t, http.MethodPost, "/admin/v1/snapshots/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore latest status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/admin/v1/snapshots/restore", strings.NewReader(`{"id":"missing"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("restore missing status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestImport_LogsWithRequestScope(t *testing.T) {
	src := newTestEnv(t)
	rec := src.do(t, http.MethodGet, "/export?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}

	var buf bytes.Buffer
	h := New(Config{
		Cabinet: service.NewRecordService(memory.New(), nil, service.WithLogger(logger.Discard())),
		Logger:  slog.New(slog.NewJSONHandler(&buf, nil)),
	})
	out := httptest.NewRecorder()
	h.ServeHTTP(out, httptest.NewRequest(http.MethodPost, "/import?format=csv", bytes.NewReader(rec.Body.Bytes())))
	if out.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", out.Code, out.Body.String())
	}

	line := buf.String()
	for _, want := range []string{`"msg":"records imported"`, `"method":"POST"`, `"path":"/import"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log %q missing %s", line, want)
		}
	}
}

func TestAdminRoutesDisabledWithoutEngine(t *testing.T) {
	h := New(Config{Cabinet: service.NewRecordService(memory.New(), nil), Logger: logger.Discard()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/v1/snapshots", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		"FC-REC-4040":  http.StatusNotFound,
		"FC-SNAP-4040": http.StatusNotFound,
		"FC-REC-4090":  http.StatusConflict,
		"FC-REC-4001":  http.StatusBadRequest,
		"FC-REC-4002":  http.StatusBadRequest,
		"FC-SNAP-4000": http.StatusBadRequest,
		"FC-ARG-1001":  http.StatusBadRequest,
		"FC-SYS-4290":  http.StatusTooManyRequests,
		"FC-SYS-5000":  http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := errorCodeToHTTPStatus(code); got != want {
			t.Errorf("errorCodeToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
