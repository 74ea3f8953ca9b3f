package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/internal/cart"
	carthttp "github.com/shopnow/storefront/internal/cart/delivery/http"
	"github.com/shopnow/storefront/internal/cart/domain"
	"github.com/shopnow/storefront/internal/cart/repository"
	"github.com/shopnow/storefront/pkg/auth"
)

// The handler registers prometheus collectors in its constructor, so the
// whole package shares one instance. Session IDs keep tests isolated.
var (
	setupOnce  sync.Once
	testRouter *mux.Router
	testTokens *auth.TokenManager
)

func testServer() (*mux.Router, *auth.TokenManager) {
	setupOnce.Do(func() {
		testTokens = auth.NewTokenManager("handler-test-secret", time.Hour)
		manager := cart.NewManager(repository.NewMemoryCartRepository(), nil)
		handler := carthttp.NewCartHandler(manager, testTokens, nil)

		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)
		handler.RegisterHealthCheck(testRouter, nil)
	})
	return testRouter, testTokens
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	router, _ := testServer()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func newSession(t *testing.T) string {
	t.Helper()
	rec, resp := doRequest(t, http.MethodPost, "/api/cart/session", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)

	var data map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data["session_id"])
	require.NotEmpty(t, data["token"])
	return data["token"]
}

func cartState(t *testing.T, resp apiResponse) domain.CartState {
	t.Helper()
	var state domain.CartState
	require.NoError(t, json.Unmarshal(resp.Data, &state))
	return state
}

func addItemBody(productID int, price float64, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"product_id": productID,
		"title":      "Test Product",
		"price":      price,
		"quantity":   quantity,
		"image":      "https://example.com/p.jpg",
		"category":   "electronics",
	}
}

func TestCreateSession(t *testing.T) {
	newSession(t)
}

func TestRequestWithoutTokenIsRejected(t *testing.T) {
	router, _ := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestWithInvalidTokenIsRejected(t *testing.T) {
	router, _ := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartStartsEmpty(t *testing.T) {
	token := newSession(t)

	rec, resp := doRequest(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	state := cartState(t, resp)
	require.Empty(t, state.Items)
	require.Equal(t, 0, state.TotalItems)
	require.Equal(t, "USD", state.Currency)
}

func TestAddItem(t *testing.T) {
	token := newSession(t)

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(1, 14.99, 2))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)

	state := cartState(t, resp)
	require.Len(t, state.Items, 1)
	require.Equal(t, 1, state.Items[0].ProductID)
	require.Equal(t, 2, state.Items[0].Quantity)
	require.Equal(t, 2, state.TotalItems)
	require.InDelta(t, 5.99, state.Shipping, 0.001)
	require.InDelta(t, 2.998, state.Tax, 0.001)
	require.InDelta(t, 38.968, state.TotalPrice, 0.001)
}

func TestAddItemRejectsInvalidProduct(t *testing.T) {
	token := newSession(t)

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(0, 29.99, 1))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)
	require.Equal(t, "Invalid product data", resp.Error)
}

func TestAddSameProductMergesLines(t *testing.T) {
	token := newSession(t)

	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(7, 10.0, 1))
	rec, resp := doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(7, 10.0, 3))
	require.Equal(t, http.StatusCreated, rec.Code)

	state := cartState(t, resp)
	require.Len(t, state.Items, 1)
	require.Equal(t, 4, state.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(3, 15.0, 1))

	quantity := 5
	rec, resp := doRequest(t, http.MethodPatch, "/api/cart/items/3", token,
		map[string]interface{}{"quantity": quantity})
	require.Equal(t, http.StatusOK, rec.Code)

	state := cartState(t, resp)
	require.Equal(t, 5, state.Items[0].Quantity)
}

func TestUpdateItemIncrementAndDecrement(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(4, 15.0, 1))

	_, resp := doRequest(t, http.MethodPatch, "/api/cart/items/4", token,
		map[string]string{"op": "increment"})
	require.Equal(t, 2, cartState(t, resp).Items[0].Quantity)

	_, resp = doRequest(t, http.MethodPatch, "/api/cart/items/4", token,
		map[string]string{"op": "decrement"})
	require.Equal(t, 1, cartState(t, resp).Items[0].Quantity)

	// Quantity never drops below one
	_, resp = doRequest(t, http.MethodPatch, "/api/cart/items/4", token,
		map[string]string{"op": "decrement"})
	require.Equal(t, 1, cartState(t, resp).Items[0].Quantity)
}

func TestUpdateItemRequiresQuantityOrOp(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(5, 15.0, 1))

	rec, resp := doRequest(t, http.MethodPatch, "/api/cart/items/5", token,
		map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Either quantity or op is required", resp.Error)
}

func TestRemoveItem(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(8, 12.0, 1))
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(9, 8.0, 1))

	rec, resp := doRequest(t, http.MethodDelete, "/api/cart/items/8", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := cartState(t, resp)
	require.Len(t, state.Items, 1)
	require.Equal(t, 9, state.Items[0].ProductID)
}

func TestToggleSelectAndRemoveSelected(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(11, 12.0, 1))
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(12, 8.0, 1))

	// Items enter the cart unselected; select product 12, then remove
	// the selected lines
	_, resp := doRequest(t, http.MethodPost, "/api/cart/items/12/toggle", token, nil)
	state := cartState(t, resp)
	for _, item := range state.Items {
		require.Equal(t, item.ProductID == 12, item.Selected)
	}

	_, resp = doRequest(t, http.MethodDelete, "/api/cart/items?selected=true", token, nil)
	state = cartState(t, resp)
	require.Len(t, state.Items, 1)
	require.Equal(t, 11, state.Items[0].ProductID)
}

func TestRemoveSelectedRequiresParameter(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(13, 12.0, 1))
	doRequest(t, http.MethodPost, "/api/cart/items/13/toggle", token, nil)

	rec, resp := doRequest(t, http.MethodDelete, "/api/cart/items", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "selected=true is required", resp.Error)

	// The cart is untouched
	_, resp = doRequest(t, http.MethodGet, "/api/cart", token, nil)
	require.Len(t, cartState(t, resp).Items, 1)
}

func TestApplyDiscount(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(20, 100.0, 1))

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/discount", token,
		map[string]string{"code": "WELCOME10"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	state := cartState(t, resp)
	require.InDelta(t, 10.0, state.Discount, 0.001)
}

func TestApplyUnknownDiscountReportsFailure(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(21, 100.0, 1))

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/discount", token,
		map[string]string{"code": "NOPE"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, resp.Success)
	require.Equal(t, "Invalid or expired discount code", resp.Message)

	state := cartState(t, resp)
	require.Zero(t, state.Discount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	token := newSession(t)

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/checkout", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Cart is empty", resp.Error)
}

func TestCheckoutClearsCart(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(30, 25.0, 2))

	rec, resp := doRequest(t, http.MethodPost, "/api/cart/checkout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	require.Equal(t, "Checkout complete", resp.Message)

	state := cartState(t, resp)
	require.Empty(t, state.Items)
	require.Zero(t, state.TotalPrice)
}

func TestClearCart(t *testing.T) {
	token := newSession(t)
	doRequest(t, http.MethodPost, "/api/cart/items", token, addItemBody(31, 25.0, 2))

	rec, resp := doRequest(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := cartState(t, resp)
	require.Empty(t, state.Items)
}

func TestHealthCheck(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	require.Equal(t, "ok", resp.Message)
}
