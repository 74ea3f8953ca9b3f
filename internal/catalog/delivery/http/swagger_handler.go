package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List products
// @Description Get products with filtering, search, sorting and pagination
// @Tags Products
// @Produce json
// @Param search query string false "Weighted search query with exact/all-words semantics"
// @Param category query string false "Comma separated category filter"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minRating query number false "Minimum rating"
// @Param inStock query bool false "Only in-stock products"
// @Param sortBy query string false "Sort key: price, rating, title, popularity, discount, newest"
// @Param order query string false "Sort direction: asc or desc"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{success=bool,data=object{products=array,total=int,limit=int,offset=int}}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *CatalogHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Get a single enriched product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// GetByCategory godoc
// @Summary Get products by category
// @Tags Products
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/products/category/{category} [get]
func (h *CatalogHandler) GetByCategoryDoc() {}

// GetCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{categories=array}}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/products/categories [get]
func (h *CatalogHandler) GetCategoriesDoc() {}

// GetStats godoc
// @Summary Get catalog statistics
// @Description Price statistics (min, max, average, median) and rating distribution
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{price=object,rating=object}}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/products/stats [get]
func (h *CatalogHandler) GetStatsDoc() {}

// GetSuggestions godoc
// @Summary Get search suggestions
// @Tags Products
// @Produce json
// @Param q query string true "Search prefix"
// @Success 200 {object} object{success=bool,data=object{titles=array,categories=array,brands=array,tags=array}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products/suggestions [get]
func (h *CatalogHandler) GetSuggestionsDoc() {}

// GetFeatured godoc
// @Summary Get featured products
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products/featured [get]
func (h *CatalogHandler) GetFeaturedDoc() {}

// GetDiscounted godoc
// @Summary Get discounted products
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products/discounted [get]
func (h *CatalogHandler) GetDiscountedDoc() {}

// CreateProduct godoc
// @Summary Create a product
// @Description Forward a product creation to the upstream catalog
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{title=string,price=number,description=string,category=string,image=string} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *CatalogHandler) CreateProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{title=string,price=number,description=string,category=string,image=string} true "Product data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products/{id} [put]
func (h *CatalogHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProductDoc() {}
