package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newCartRouter() (*mockProductRepository, chi.Router) {
	productRepo := newMockProductRepository()
	cartRepo := newMockCartRepository(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)

	router := chi.NewRouter()
	NewCartHandler(cartService, zap.NewNop()).RegisterRoutes(router)
	return productRepo, router
}

func seedTestProduct(productRepo *mockProductRepository, price float64) *domain.Product {
	product := &domain.Product{
		ID:    uuid.New(),
		Name:  "Test Product",
		Price: price,
		Stock: 100,
	}
	productRepo.products[product.ID] = product
	return product
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return bytes.NewReader(body)
}

func postJSON(t *testing.T, router chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartHandler_AddItem_MergesDuplicates(t *testing.T) {
	productRepo, router := newCartRouter()
	product := seedTestProduct(productRepo, 25)

	payload := AddCartItemRequest{
		SessionID: "session-1",
		ProductID: product.ID,
		Quantity:  2,
	}

	w := postJSON(t, router, "/api/cart/items", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("first add: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	payload.Quantity = 3
	w = postJSON(t, router, "/api/cart/items", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("second add: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var cart CartResponse
	if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.Subtotal != 125 {
		t.Fatalf("expected subtotal 125, got %f", cart.Subtotal)
	}
}

func TestCartHandler_AddItem_ValidationAndErrors(t *testing.T) {
	productRepo, router := newCartRouter()
	product := seedTestProduct(productRepo, 25)

	tests := []struct {
		name    string
		payload AddCartItemRequest
		want    int
	}{
		{"missing session", AddCartItemRequest{ProductID: product.ID, Quantity: 1}, http.StatusBadRequest},
		{"zero quantity", AddCartItemRequest{SessionID: "s", ProductID: product.ID, Quantity: 0}, http.StatusBadRequest},
		{"negative quantity", AddCartItemRequest{SessionID: "s", ProductID: product.ID, Quantity: -2}, http.StatusBadRequest},
		{"unknown product", AddCartItemRequest{SessionID: "s", ProductID: uuid.New(), Quantity: 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/cart/items", tt.payload)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCartHandler_Get_UnknownSessionReturnsEmptyCart(t *testing.T) {
	_, router := newCartRouter()

	req := httptest.NewRequest("GET", "/api/cart?session_id=fresh-session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var cart CartResponse
	if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestCartHandler_Get_RequiresSessionID(t *testing.T) {
	_, router := newCartRouter()

	req := httptest.NewRequest("GET", "/api/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCartHandler_RemoveItem_NotFound(t *testing.T) {
	_, router := newCartRouter()

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/cart/items/%s", uuid.New()), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCartHandler_RemoveItem_BadUUID(t *testing.T) {
	_, router := newCartRouter()

	req := httptest.NewRequest("DELETE", "/api/cart/items/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCartHandler_Clear(t *testing.T) {
	productRepo, router := newCartRouter()
	product := seedTestProduct(productRepo, 10)

	w := postJSON(t, router, "/api/cart/items", AddCartItemRequest{
		SessionID: "to-clear",
		ProductID: product.ID,
		Quantity:  1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", w.Code)
	}

	req := httptest.NewRequest("DELETE", "/api/cart?session_id=to-clear", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", w2.Code)
	}

	req = httptest.NewRequest("GET", "/api/cart?session_id=to-clear", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)

	var cart CartResponse
	if err := json.Unmarshal(w3.Body.Bytes(), &cart); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(cart.Items))
	}
}
