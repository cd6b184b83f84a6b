package http

import (
	"net/http"

	"campus-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddressHandler struct {
	svc service.AddressService
	log *zap.Logger
}

func NewAddressHandler(svc service.AddressService, log *zap.Logger) *AddressHandler {
	return &AddressHandler{svc: svc, log: log}
}

func (h *AddressHandler) List(c *gin.Context) {
	addrs, err := h.svc.ListAddresses(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]AddressResponse, 0, len(addrs))
	for i := range addrs {
		out = append(out, toAddressResponse(&addrs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	a, err := h.svc.CreateAddress(c.Request.Context(), service.AddressInput{
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(a))
}

func (h *AddressHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid address id"))
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	a, err := h.svc.UpdateAddress(c.Request.Context(), id, service.AddressPatch{
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(a))
}

func (h *AddressHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid address id"))
		return
	}

	if err := h.svc.DeleteAddress(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid address id"))
		return
	}

	a, err := h.svc.SetDefault(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(a))
}
