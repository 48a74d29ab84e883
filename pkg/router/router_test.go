package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/router"
)

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{slug}", "products.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	url, err := r.URL("products.show", map[string]string{"slug": "nen-thom-lavender"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/products/nen-thom-lavender" {
		t.Errorf("unexpected url: %s", url)
	}

	if _, err := r.URL("products.show", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mw("outer"))
	admin := api.Group("/admin", mw("inner"))
	admin.Get("/orders", "admin.orders", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("unexpected middleware order: %v", order)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", func(http.ResponseWriter, *http.Request) {})
	r.Post("/b", "b", func(http.ResponseWriter, *http.Request) {})
	r.Get("/unnamed", "", func(http.ResponseWriter, *http.Request) {})

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("expected 2 named routes, got %d", len(infos))
	}
}
