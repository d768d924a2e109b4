package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvs    WalletServicer
	reconcileSvs ReconcileServicer
}

func NewWalletHandler(walletSvs WalletServicer, reconcileSvs ReconcileServicer) *WalletHandler {
	return &WalletHandler{
		walletSvs:    walletSvs,
		reconcileSvs: reconcileSvs,
	}
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// Balance GET RouteGroup + BalanceRoute. Текущий баланс кошелька в песевах.
func (h *WalletHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := h.walletSvs.GetBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{Balance: balance})
}

type TopupVerifyParams struct {
	Reference string `binding:"required,startswith=DL-,max_bytes=64" json:"reference"`
	Amount    int64  `binding:"required,gt=0"                        json:"amount"`
}

// TopupVerify POST RouteGroup + TopupVerifyRoute. Сверка пополнения кошелька
// с платежным шлюзом. Amount - заявленная нетто-сумма зачисления в песевах,
// проверяется против фактического списания шлюза.
func (h *WalletHandler) TopupVerify(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TopupVerifyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DispatchServiceTimeout)
	defer cancel()

	result, err := h.reconcileSvs.ConfirmTopup(reqCtx, currentUserID, params.Reference, params.Amount)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	respondOutcome(c, result)
}
