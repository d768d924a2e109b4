package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/internal/service"
	"github.com/fsdevblog/datalink/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка
// утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

type OrderResponse struct {
	CreatedAt   time.Time              `json:"created_at"`
	Reference   string                 `json:"reference"`
	Kind        domain.OrderKindType   `json:"kind"`
	Network     string                 `json:"network,omitempty"`
	PlanID      string                 `json:"data_plan,omitempty"`
	PhoneNumber string                 `json:"phone_number,omitempty"`
	Amount      int64                  `json:"amount"`
	Status      domain.OrderStatusType `json:"status"`
}

func newOrderResponse(order *domain.Order) *OrderResponse {
	return &OrderResponse{
		CreatedAt:   order.CreatedAt,
		Reference:   order.Reference,
		Kind:        order.Kind,
		Network:     order.Network,
		PlanID:      order.PlanID,
		PhoneNumber: order.PhoneNumber,
		Amount:      order.Amount,
		Status:      order.Status,
	}
}

type OutcomeResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order,omitempty"`
	Balance *int64         `json:"balance,omitempty"`
}

// respondOutcome переводит бизнес-исход операции в http ответ. Мэппинг статусов:
// success и already_processed - 200, processing - 202, insufficient_funds и
// payment_failed - 402, gateway_mismatch - 409, invalid_request - 422.
func respondOutcome(c *gin.Context, result *service.PurchaseResult) {
	middlewares.ObserveOutcome(string(result.Outcome))

	response := OutcomeResponse{Status: string(result.Outcome)}
	if result.Order != nil {
		response.Order = newOrderResponse(result.Order)
	}

	var httpStatus int
	switch result.Outcome {
	case service.OutcomeSuccess:
		httpStatus = http.StatusOK
		if result.NewBalance >= 0 {
			balance := result.NewBalance
			response.Balance = &balance
		}
	case service.OutcomeAlreadyProcessed:
		httpStatus = http.StatusOK
		response.Message = "reference already processed"
	case service.OutcomeProcessing:
		httpStatus = http.StatusAccepted
		response.Message = "payment is being processed, retry later"
	case service.OutcomeInsufficientFunds:
		httpStatus = http.StatusPaymentRequired
		response.Message = "insufficient wallet balance"
	case service.OutcomePaymentFailed:
		httpStatus = http.StatusPaymentRequired
		response.Message = "payment was not successful"
		if result.NewBalance > 0 {
			balance := result.NewBalance
			response.Balance = &balance
		}
	case service.OutcomeGatewayMismatch:
		httpStatus = http.StatusConflict
		response.Message = "payment amount does not match the expected charge"
	case service.OutcomeInvalidRequest:
		httpStatus = http.StatusUnprocessableEntity
		response.Message = "invalid purchase parameters"
	default:
		httpStatus = http.StatusInternalServerError
	}

	c.AbortWithStatusJSON(httpStatus, response)
}
