package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/service"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// SelectCategoryRequest picks a filter value
type SelectCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// AddToCartRequest adds one unit of a product. A zero ID is a lookup miss,
// not a missing field.
type AddToCartRequest struct {
	ProductID *int64 `json:"product_id" binding:"required"`
}

// AdjustQuantityRequest changes a line item quantity
type AdjustQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// UpdateFieldRequest sets one form field
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid product ID", err)
		return 0, false
	}
	return id, true
}

func notificationsOf[T any](result *service.Result[T]) []models.Notification {
	if result == nil {
		return nil
	}
	return result.Notifications
}

func (h *Handler) listProducts(c *gin.Context) {
	view, err := h.pages.Products(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) selectProductCategory(c *gin.Context) {
	var req SelectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.pages.SelectProductCategory(c.Request.Context(), c.Param("session_id"), req.Category)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) getCart(c *gin.Context) {
	view, err := h.pages.Cart(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.pages.AddToCart(c.Request.Context(), c.Param("session_id"), *req.ProductID)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) adjustCartItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.pages.AdjustCartItem(c.Request.Context(), c.Param("session_id"), id, *req.Delta)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) removeFromCart(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	result, err := h.pages.RemoveFromCart(c.Request.Context(), c.Param("session_id"), id)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getOrderForm(c *gin.Context) {
	view, err := h.pages.OrderForm(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateOrderForm(c *gin.Context) {
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.pages.UpdateOrderForm(c.Request.Context(), c.Param("session_id"), req.Field, req.Value)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// checkout handles order submission
func (h *Handler) checkout(c *gin.Context) {
	result, err := h.pages.Checkout(c.Request.Context(), c.Param("session_id"), c.GetHeader(idempotencyHeader))
	if errors.Is(err, service.ErrDuplicateSubmission) && result != nil && result.View.OrderNumber != "" {
		c.JSON(http.StatusConflict, gin.H{
			"error":        "Already submitted",
			"order_number": result.View.OrderNumber,
		})
		return
	}
	if err != nil {
		h.writeError(c, err, notificationsOf(result))
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) listProjects(c *gin.Context) {
	view, err := h.pages.Projects(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) selectProjectCategory(c *gin.Context) {
	var req SelectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.pages.SelectProjectCategory(c.Request.Context(), c.Param("session_id"), req.Category)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) listSkills(c *gin.Context) {
	skills, err := h.pages.Skills(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func (h *Handler) getContactForm(c *gin.Context) {
	view, err := h.pages.ContactForm(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateContactForm(c *gin.Context) {
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.pages.UpdateContactForm(c.Request.Context(), c.Param("session_id"), req.Field, req.Value)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// submitContact handles contact form submission
func (h *Handler) submitContact(c *gin.Context) {
	result, err := h.pages.SubmitContact(c.Request.Context(), c.Param("session_id"), c.GetHeader(idempotencyHeader))
	if err != nil {
		h.writeError(c, err, notificationsOf(result))
		return
	}
	c.JSON(http.StatusCreated, result)
}
