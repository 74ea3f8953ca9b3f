package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopnow/storefront/internal/cart"
	"github.com/shopnow/storefront/internal/cart/domain"
	"github.com/shopnow/storefront/internal/events"
	"github.com/shopnow/storefront/pkg/auth"
	"github.com/shopnow/storefront/pkg/logger"
)

// CartHandler exposes the cart store over HTTP. It is the only way the
// UI layer mutates cart state.
type CartHandler struct {
	manager   *cart.Manager
	tokens    *auth.TokenManager
	publisher *events.Publisher // nil disables checkout events

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// NewCartHandler creates a new cart handler
func NewCartHandler(manager *cart.Manager, tokens *auth.TokenManager, publisher *events.Publisher) *CartHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_service_requests_total",
			Help: "Total number of requests to the cart service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cart_service_request_duration_seconds",
			Help:    "Duration of cart service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "cart_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)

	return &CartHandler{
		manager:        manager,
		tokens:         tokens,
		publisher:      publisher,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CartHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *CartHandler) withSession(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return h.metricsMiddleware(endpoint, SessionMiddleware(h.tokens, next))
}

// RegisterRoutes wires the cart API onto the router
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart/session", h.metricsMiddleware("/api/cart/session", h.CreateSession)).Methods("POST")

	router.HandleFunc("/api/cart", h.withSession("/api/cart", h.GetCart)).Methods("GET")
	router.HandleFunc("/api/cart", h.withSession("/api/cart", h.ClearCart)).Methods("DELETE")
	router.HandleFunc("/api/cart/items", h.withSession("/api/cart/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/cart/items", h.withSession("/api/cart/items", h.RemoveSelected)).Methods("DELETE")
	router.HandleFunc("/api/cart/items/{productId}", h.withSession("/api/cart/items/{productId}", h.GetItem)).Methods("GET")
	router.HandleFunc("/api/cart/items/{productId}", h.withSession("/api/cart/items/{productId}", h.UpdateItem)).Methods("PATCH")
	router.HandleFunc("/api/cart/items/{productId}", h.withSession("/api/cart/items/{productId}", h.RemoveItem)).Methods("DELETE")
	router.HandleFunc("/api/cart/items/{productId}/toggle", h.withSession("/api/cart/items/{productId}/toggle", h.ToggleSelect)).Methods("POST")
	router.HandleFunc("/api/cart/select-all", h.withSession("/api/cart/select-all", h.SelectAll)).Methods("POST")
	router.HandleFunc("/api/cart/unselect-all", h.withSession("/api/cart/unselect-all", h.UnselectAll)).Methods("POST")
	router.HandleFunc("/api/cart/discount", h.withSession("/api/cart/discount", h.ApplyDiscount)).Methods("POST")
	router.HandleFunc("/api/cart/checkout", h.withSession("/api/cart/checkout", h.Checkout)).Methods("POST")
}

// RegisterHealthCheck registers the health endpoint. db may be nil when
// carts are stored in Redis only.
func (h *CartHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "database unreachable",
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "ok"})
	}).Methods("GET")
}

// CreateSession handles POST /api/cart/session
func (h *CartHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, token, err := h.tokens.NewSession()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create cart session")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create session",
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Data: map[string]string{
			"session_id": sessionID,
			"token":      token,
		},
	})
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.manager.Get(r.Context(), SessionID(r))
	respondJSON(w, http.StatusOK, Response{Success: true, Data: store.State()})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   int     `json:"product_id"`
		Title       string  `json:"title"`
		Price       float64 `json:"price"`
		Quantity    int     `json:"quantity"`
		Image       string  `json:"image"`
		Category    string  `json:"category"`
		MaxQuantity int     `json:"max_quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ProductID <= 0 || req.Price < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product data"})
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.Add(r.Context(), domain.CartItem{
		ProductID:   req.ProductID,
		Title:       req.Title,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Category:    req.Category,
		MaxQuantity: req.MaxQuantity,
	})

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item added to cart",
		Data:    state,
	})
}

// GetItem handles GET /api/cart/items/{productId}
func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"product_id": productID,
			"quantity":   store.GetQuantity(productID),
			"in_cart":    store.IsInCart(productID),
		},
	})
}

// UpdateItem handles PATCH /api/cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity *int   `json:"quantity"`
		Op       string `json:"op"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))

	var state domain.CartState
	switch {
	case req.Op == "increment":
		state = store.Increment(r.Context(), productID)
	case req.Op == "decrement":
		state = store.Decrement(r.Context(), productID)
	case req.Quantity != nil:
		// Out-of-range quantities are clamped, never rejected
		state = store.UpdateQuantity(r.Context(), productID, *req.Quantity)
	default:
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Either quantity or op is required"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.Remove(r.Context(), productID)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// RemoveSelected handles DELETE /api/cart/items?selected=true. The
// explicit parameter guards the bulk delete against accidental calls.
func (h *CartHandler) RemoveSelected(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("selected") != "true" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "selected=true is required"})
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.RemoveSelected(r.Context())
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// ToggleSelect handles POST /api/cart/items/{productId}/toggle
func (h *CartHandler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.ToggleSelect(r.Context(), productID)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// SelectAll handles POST /api/cart/select-all
func (h *CartHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.SelectAll(r.Context())
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// UnselectAll handles POST /api/cart/unselect-all
func (h *CartHandler) UnselectAll(w http.ResponseWriter, r *http.Request) {
	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.UnselectAll(r.Context())
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.manager.Get(r.Context(), SessionID(r))
	state := store.Clear(r.Context())
	respondJSON(w, http.StatusOK, Response{Success: true, Data: state})
}

// ApplyDiscount handles POST /api/cart/discount
func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	store := h.manager.Get(r.Context(), SessionID(r))
	result := store.ApplyDiscount(r.Context(), req.Code)

	// An invalid code is expected user input, not a server error
	respondJSON(w, http.StatusOK, Response{
		Success: result.Success,
		Message: result.Message,
		Data:    store.State(),
	})
}

// Checkout handles POST /api/cart/checkout: it emits the checkout event
// and clears the cart
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(r)
	store := h.manager.Get(r.Context(), sessionID)
	state := store.State()

	if len(state.Items) == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Cart is empty"})
		return
	}

	if h.publisher != nil {
		items := make([]events.CheckedOutItem, len(state.Items))
		for i, item := range state.Items {
			items[i] = events.CheckedOutItem{
				ProductID: item.ProductID,
				Title:     item.Title,
				Price:     item.Price,
				Quantity:  item.Quantity,
			}
		}

		event := events.CartCheckedOutEvent{
			SessionID:  sessionID,
			Items:      items,
			TotalItems: state.TotalItems,
			TotalPrice: state.TotalPrice,
			Discount:   state.Discount,
			Shipping:   state.Shipping,
			Tax:        state.Tax,
			Currency:   state.Currency,
		}
		if err := h.publisher.PublishCartCheckedOut(r.Context(), event); err != nil {
			logger.Error(r.Context()).Err(err).Str("session_id", sessionID).Msg("Failed to publish checkout event")
		}
	}

	cleared := store.Clear(r.Context())
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Checkout complete",
		Data:    cleared,
	})
}

func productIDVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	productID, err := strconv.Atoi(vars["productId"])
	if err != nil || productID <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return 0, false
	}
	return productID, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}
