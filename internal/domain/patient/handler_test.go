package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newHandlerTest() (*echo.Echo, *Handler, *mockPatientRepo) {
	e := echo.New()
	svc, repo := newTestService()
	h := NewHandler(svc)
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, h, repo
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"patient_id": "1",
	"name": "jean dela cruz",
	"mobile": "09171234567",
	"email": "jean@example.com",
	"address": "12 mabini st., brgy. poblacion, santa rosa, laguna",
	"gender": "Female",
	"dob": "1/5/1990",
	"diagnosis": "acute bronchitis"
}`

func TestHandler_CreateAndGet(t *testing.T) {
	e, _, _ := newHandlerTest()

	rec := doJSON(e, http.MethodPost, "/api/v1/patients", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["mobile"] != "+63 917 123 4567" {
		t.Errorf("mobile = %v", got["mobile"])
	}
	if got["name"] != "Jean Dela Cruz" {
		t.Errorf("name = %v", got["name"])
	}
}

func TestHandler_CreateValidation(t *testing.T) {
	e, _, _ := newHandlerTest()
	body := strings.Replace(createBody, `"09171234567"`, `"12345"`, 1)
	rec := doJSON(e, http.MethodPost, "/api/v1/patients", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_CreateDuplicate(t *testing.T) {
	e, _, _ := newHandlerTest()
	doJSON(e, http.MethodPost, "/api/v1/patients", createBody)
	rec := doJSON(e, http.MethodPost, "/api/v1/patients", createBody)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandler_GetMissing(t *testing.T) {
	e, _, _ := newHandlerTest()
	rec := doJSON(e, http.MethodGet, "/api/v1/patients/404", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandler_BulkDelete(t *testing.T) {
	e, _, _ := newHandlerTest()
	doJSON(e, http.MethodPost, "/api/v1/patients", createBody)
	rec := doJSON(e, http.MethodPost, "/api/v1/patients/bulk-delete", `{"ids":["1","2"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["deleted"] != 1 {
		t.Errorf("deleted = %d, want 1", got["deleted"])
	}
}

func TestQueryContextFromRequest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/patients?filter_field=name&q=cruz&sort=dob&order=desc", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	q := QueryContextFromRequest(c)
	if q.FilterField != "name" || q.FilterTerm != "cruz" {
		t.Errorf("filter = %+v", q)
	}
	if q.SortField != "dob" || q.SortOrder != "DESC" {
		t.Errorf("sort = %+v", q)
	}
}
