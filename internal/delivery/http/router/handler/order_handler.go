package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler places and lists the caller's orders.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder handles POST /api/orders.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	input := new(usecase.PlaceOrderInput)
	if err := bindAndValidate(c, input); err != nil {
		return err
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed")
}

// ListMyOrders handles GET /api/orders/my.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}
