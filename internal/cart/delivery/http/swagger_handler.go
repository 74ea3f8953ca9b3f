package http

// CreateSession godoc
// @Summary Create an anonymous cart session
// @Description Issue a signed session token for subsequent cart requests
// @Tags Cart
// @Produce json
// @Success 200 {object} object{success=bool,data=object{token=string,sessionId=string}}
// @Router /api/cart/session [post]
func (h *CartHandler) CreateSessionDoc() {}

// GetCart godoc
// @Summary Get the current cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/cart [get]
func (h *CartHandler) GetCartDoc() {}

// AddItem godoc
// @Summary Add an item to the cart
// @Description Merge quantity when the product is already present
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{productId=int,title=string,price=number,quantity=int,image=string,category=string,maxQuantity=int} true "Item data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/cart/items [post]
func (h *CartHandler) AddItemDoc() {}

// UpdateItem godoc
// @Summary Update an item quantity
// @Description Set quantity (clamped to valid range) or increment/decrement
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param request body object{op=string,quantity=int} true "Update data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/cart/items/{productId} [patch]
func (h *CartHandler) UpdateItemDoc() {}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItemDoc() {}

// ApplyDiscount godoc
// @Summary Apply a discount code
// @Description Evaluate a discount code against the current subtotal
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{code=string} true "Discount code"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Router /api/cart/discount [post]
func (h *CartHandler) ApplyDiscountDoc() {}

// Checkout godoc
// @Summary Check out the cart
// @Description Publish a checkout event and clear the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/cart/checkout [post]
func (h *CartHandler) CheckoutDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and storage connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *CartHandler) HealthCheckDoc() {}
