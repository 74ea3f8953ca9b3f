package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopnow/storefront/internal/catalog/domain"
	"github.com/shopnow/storefront/internal/catalog/usecase/command"
	"github.com/shopnow/storefront/internal/catalog/usecase/query"
	"github.com/shopnow/storefront/pkg/logger"
)

// CatalogHandler handles HTTP requests for the product catalog using
// CQRS handlers. Filters arrive as URL query parameters.
type CatalogHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	listHandler        *query.ListProductsHandler
	getHandler         *query.GetProductHandler
	categoriesHandler  *query.GetCategoriesHandler
	statsHandler       *query.GetStatsHandler
	suggestionsHandler *query.GetSuggestionsHandler
	featuredHandler    *query.FeaturedHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler (manual DI)
func NewCatalogHandler(gateway domain.Gateway, enricher *domain.Enricher) *CatalogHandler {
	return NewCatalogHandlerWithDI(
		command.NewCreateProductHandler(gateway),
		command.NewUpdateProductHandler(gateway),
		command.NewDeleteProductHandler(gateway),
		query.NewListProductsHandler(gateway, enricher),
		query.NewGetProductHandler(gateway, enricher),
		query.NewGetCategoriesHandler(gateway),
		query.NewGetStatsHandler(gateway),
		query.NewGetSuggestionsHandler(gateway, enricher),
		query.NewFeaturedHandler(gateway, enricher),
	)
}

// NewCatalogHandlerWithDI creates a new catalog handler using
// dependency injection; used by Wire
func NewCatalogHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	listHandler *query.ListProductsHandler,
	getHandler *query.GetProductHandler,
	categoriesHandler *query.GetCategoriesHandler,
	statsHandler *query.GetStatsHandler,
	suggestionsHandler *query.GetSuggestionsHandler,
	featuredHandler *query.FeaturedHandler,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to the catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		createHandler:      createHandler,
		updateHandler:      updateHandler,
		deleteHandler:      deleteHandler,
		listHandler:        listHandler,
		getHandler:         getHandler,
		categoriesHandler:  categoriesHandler,
		statsHandler:       statsHandler,
		suggestionsHandler: suggestionsHandler,
		featuredHandler:    featuredHandler,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
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

func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes wires the catalog API onto the router. Fixed paths are
// registered before the numeric {id} pattern.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/categories", h.metricsMiddleware("/api/products/categories", h.GetCategories)).Methods("GET")
	router.HandleFunc("/api/products/stats", h.metricsMiddleware("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/suggestions", h.metricsMiddleware("/api/products/suggestions", h.GetSuggestions)).Methods("GET")
	router.HandleFunc("/api/products/featured", h.metricsMiddleware("/api/products/featured", h.GetFeatured)).Methods("GET")
	router.HandleFunc("/api/products/discounted", h.metricsMiddleware("/api/products/discounted", h.GetDiscounted)).Methods("GET")
	router.HandleFunc("/api/products/category/{category}", h.metricsMiddleware("/api/products/category/{category}", h.GetByCategory)).Methods("GET")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metricsMiddleware("/api/products/{id}", h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metricsMiddleware("/api/products/{id}", h.DeleteProduct)).Methods("DELETE")
}

// parseFilters maps URL query parameters onto the filter spec
func parseFilters(r *http.Request) domain.ProductFilters {
	q := r.URL.Query()

	filters := domain.ProductFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}

	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filters.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filters.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("minRating"), 64); err == nil {
		filters.MinRating = &v
	}
	if v, err := strconv.ParseBool(q.Get("inStock")); err == nil {
		filters.InStock = &v
	}
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Offset, _ = strconv.Atoi(q.Get("offset"))

	return filters
}

// ListProducts handles GET /api/products. An ids parameter switches to a
// multi-get by product ID instead of the filtered listing.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if rawIDs := r.URL.Query().Get("ids"); rawIDs != "" {
		h.getProductsByIDs(w, r, rawIDs)
		return
	}

	filters := parseFilters(r)

	page, err := h.listHandler.Handle(r.Context(), filters)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: page})
}

// getProductsByIDs handles GET /api/products?ids=1,2,3. Results keep the
// requested order; an unknown ID fails the whole request.
func (h *CatalogHandler) getProductsByIDs(w http.ResponseWriter, r *http.Request, rawIDs string) {
	var ids []int
	for _, part := range strings.Split(rawIDs, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid ids parameter"})
			return
		}
		ids = append(ids, id)
	}

	products, err := h.getHandler.HandleMany(r.Context(), ids)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("ids", rawIDs).Msg("Failed to fetch products by id")
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Product not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}

	product, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Product not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// GetByCategory handles GET /api/products/category/{category}
func (h *CatalogHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	products, err := h.getHandler.HandleByCategory(r.Context(), category)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("category", category).Msg("Failed to fetch category")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// GetCategories handles GET /api/products/categories
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoriesHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to fetch categories")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"categories": categories},
	})
}

// GetStats handles GET /api/products/stats
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	price, err := h.statsHandler.PriceStatistics(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute price statistics")
		respondUpstreamError(w, err)
		return
	}

	rating, err := h.statsHandler.RatingStatistics(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute rating statistics")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"price":  price,
			"rating": rating,
		},
	})
}

// GetSuggestions handles GET /api/products/suggestions
func (h *CatalogHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Query parameter q is required"})
		return
	}

	suggestions, err := h.suggestionsHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute suggestions")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: suggestions})
}

// GetFeatured handles GET /api/products/featured
func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.featuredHandler.Featured(r.Context(), limit)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to fetch featured products")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// GetDiscounted handles GET /api/products/discounted
func (h *CatalogHandler) GetDiscounted(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.featuredHandler.Discounted(r.Context(), limit)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to fetch discounted products")
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	product, err := h.createHandler.Handle(r.Context(), input)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}

	var input domain.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), id, input)
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("product_id", id).Msg("Failed to update product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}

	product, err := h.deleteHandler.Handle(r.Context(), id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("product_id", id).Msg("Failed to delete product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
		Data:    product,
	})
}

func idVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondUpstreamError(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadGateway, Response{
		Success: false,
		Error:   err.Error(),
	})
}
