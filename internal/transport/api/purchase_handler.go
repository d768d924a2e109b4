package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/datalink/internal/service"
)

type PurchaseHandler struct {
	reconcileSvs ReconcileServicer
}

func NewPurchaseHandler(reconcileSvs ReconcileServicer) *PurchaseHandler {
	return &PurchaseHandler{
		reconcileSvs: reconcileSvs,
	}
}

type PurchaseWalletParams struct {
	Network     string `binding:"required"          json:"network"`
	PlanID      string `binding:"required"          json:"data_plan"`
	PhoneNumber string `binding:"required,gh_phone" json:"phone_number"`
}

// PurchaseWallet POST RouteGroup + PurchaseWalletRoute. Покупка пакета данных
// с баланса кошелька. Цена берется из каталога на сервере, присланные клиентом
// суммы игнорируются.
func (h *PurchaseHandler) PurchaseWallet(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params PurchaseWalletParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DispatchServiceTimeout)
	defer cancel()

	result, err := h.reconcileSvs.PurchaseWithWallet(reqCtx, currentUserID, service.PurchaseArgs{
		Network:     params.Network,
		PlanID:      params.PlanID,
		PhoneNumber: params.PhoneNumber,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	respondOutcome(c, result)
}

type PurchaseVerifyParams struct {
	Reference   string `binding:"required,startswith=DL-,max_bytes=64" json:"reference"`
	Network     string `binding:"required"                             json:"network"`
	PlanID      string `binding:"required"                             json:"data_plan"`
	PhoneNumber string `binding:"required,gh_phone"                    json:"phone_number"`
}

// PurchaseVerify POST RouteGroup + PurchaseVerifyRoute. Подтверждение покупки,
// оплаченной через платежный шлюз. Повторный запрос с тем же референсом
// возвращает ранее записанный исход без повторного списания или отправки.
func (h *PurchaseHandler) PurchaseVerify(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params PurchaseVerifyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DispatchServiceTimeout)
	defer cancel()

	result, err := h.reconcileSvs.ConfirmPurchase(reqCtx, currentUserID, params.Reference, service.PurchaseArgs{
		Network:     params.Network,
		PlanID:      params.PlanID,
		PhoneNumber: params.PhoneNumber,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	respondOutcome(c, result)
}
