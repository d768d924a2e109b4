package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/datalink/internal/domain"
)

const RouteDispatch = "/dispatch"

type dispatchRequest struct {
	Reference   string `json:"reference"`
	Network     string `json:"network"`
	PlanID      string `json:"plan_id"`
	PhoneNumber string `json:"phone_number"`
}

// Client реализация service.FulfillmentDispatcher поверх HTTP API оператора.
// Повторные попытки здесь не выполняются: Dispatch не идемпотентен на стороне
// оператора и повтор при неизвестном исходе грозит двойной доставкой пакета.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Dispatch отправляет оператору заявку на доставку пакета данных.
//
// Маппинг ответа:
//   - 2xx - заявка принята;
//   - 4xx - заявка отклонена, оператор гарантированно ничего не отправил;
//   - 5xx, таймаут, сетевая ошибка - исход неизвестен.
//
//nolint:nonamedreturns
func (c *Client) Dispatch(
	ctx context.Context,
	req domain.DispatchRequest,
) (result domain.DispatchResultType, err error) {
	payload, marshalErr := json.Marshal(dispatchRequest{
		Reference:   req.Reference,
		Network:     req.Network,
		PlanID:      req.PlanID,
		PhoneNumber: req.PhoneNumber,
	})
	if marshalErr != nil {
		return domain.DispatchAmbiguous, fmt.Errorf("marshal request: %s", marshalErr.Error())
	}

	httpReq, reqErr := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+RouteDispatch, bytes.NewReader(payload))
	if reqErr != nil {
		return domain.DispatchAmbiguous, fmt.Errorf("create request: %s", reqErr.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(httpReq)
	if doErr != nil {
		// Запрос мог дойти до оператора, считать отказ нельзя.
		return domain.DispatchAmbiguous, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return domain.DispatchAccepted, nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return domain.DispatchRejected, nil
	default:
		return domain.DispatchAmbiguous, NewStatusCodeError(resp.StatusCode)
	}
}
