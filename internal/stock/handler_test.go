package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeStorage struct {
	items   []Item
	listErr error
	syncErr error
}

func (f *fakeStorage) List(ctx context.Context) ([]Item, error) {
	return f.items, f.listErr
}

func (f *fakeStorage) ReplaceAll(ctx context.Context, items []Item) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	f.items = items
	return nil
}

func TestItemNormalize(t *testing.T) {
	tests := []struct {
		brand Brand
		want  Brand
	}{
		{brand: "RE", want: BrandRE},
		{brand: "axxis", want: BrandAxxis},
		{brand: " re ", want: BrandRE},
		{brand: "", want: BrandRE},
		{brand: "UNKNOWN", want: BrandRE},
	}

	for _, tt := range tests {
		item := Item{Brand: tt.brand}
		item.Normalize()
		if item.Brand != tt.want {
			t.Errorf("Normalize(%q) brand = %s, want %s", tt.brand, item.Brand, tt.want)
		}
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "valid", item: Item{ID: "1", Code: "P-100", Stock: 2}, wantErr: false},
		{name: "missing id", item: Item{Code: "P-100"}, wantErr: true},
		{name: "missing code", item: Item{ID: "1"}, wantErr: true},
		{name: "negative stock", item: Item{ID: "1", Code: "P-100", Stock: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	store := &fakeStorage{items: []Item{{ID: "1", Code: "P-100", Brand: BrandRE}}}
	router := NewHandler(store).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var items []Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if len(items) != 1 || items[0].Code != "P-100" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestHandleListEmpty(t *testing.T) {
	router := NewHandler(&fakeStorage{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// An empty catalog serializes as [], not null.
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty array, got %q", body)
	}
}

func TestHandleSync(t *testing.T) {
	store := &fakeStorage{items: []Item{{ID: "old", Code: "OLD"}}}
	router := NewHandler(store).Router()

	payload := []Item{
		{ID: "1", Code: "P-100", Stock: 5, Brand: "axxis"},
		{ID: "2", Code: "P-200", Stock: 3},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/stock", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp syncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success || resp.Count != 2 || resp.BatchID == "" {
		t.Errorf("Unexpected sync response: %+v", resp)
	}

	// Replace-all semantics: the old item is gone.
	if len(store.items) != 2 || store.items[0].ID != "1" {
		t.Errorf("Store not replaced: %+v", store.items)
	}
	if store.items[0].Brand != BrandAxxis {
		t.Errorf("Brand not normalized: %s", store.items[0].Brand)
	}
}

func TestHandleSyncBadPayload(t *testing.T) {
	router := NewHandler(&fakeStorage{}).Router()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json"},
		{name: "invalid item", body: `[{"id": "", "code": "P-100"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/stock", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleSyncStoreFailure(t *testing.T) {
	store := &fakeStorage{syncErr: fmt.Errorf("connection lost")}
	router := NewHandler(store).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/stock", bytes.NewBufferString("[]"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}
