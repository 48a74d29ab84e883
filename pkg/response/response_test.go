package response_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NotFound(rec, "Không tìm thấy sản phẩm")

	if rec.Code != 404 {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if body := decode(t, rec); body["message"] != "Không tìm thấy sản phẩm" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestValidationErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"email": "email không hợp lệ"})

	if rec.Code != 422 {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Dữ liệu không hợp lệ" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	errs, ok := body["errors"].(map[string]interface{})
	if !ok || errs["email"] != "email không hợp lệ" {
		t.Errorf("unexpected errors: %v", body["errors"])
	}
}

func TestServerErrorIncludesStackOnlyWhenGiven(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ServerError(rec, "Lỗi máy chủ", "")
	if _, ok := decode(t, rec)["stack"]; ok {
		t.Error("stack must be omitted when empty")
	}

	rec = httptest.NewRecorder()
	response.ServerError(rec, "Lỗi máy chủ", "goroutine 1 [running]")
	if _, ok := decode(t, rec)["stack"]; !ok {
		t.Error("stack must be present when provided")
	}
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, map[string]string{"name": "Khăn len móc tay"})
	if rec.Code != 201 {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}
