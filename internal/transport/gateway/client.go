package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/datalink/internal/domain"
)

const RouteVerifyTransaction = "/transaction/verify/%s"

// Константы минимального и максимального значения в заголовке Retry-After.
const (
	minRetryAfter = 1
	maxRetryAfter = 120
)

// verifyResponse структура ответа шлюза. Amount приходит в песевах,
// уже с учетом комиссии шлюза.
type verifyResponse struct {
	Data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Client реализация service.GatewayVerifier поверх HTTP API платежного шлюза.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func New(baseURL string, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyTransaction запрашивает у шлюза авторитетный исход платежа по референсу.
// При ответе сервера со статусом отличным от http.StatusOK возвращает StatusCodeError,
// или TooManyRequestError в случае http.StatusTooManyRequests.
//
//nolint:nonamedreturns
func (c *Client) VerifyTransaction(
	ctx context.Context,
	reference string,
) (verification *domain.GatewayVerification, err error) {
	url := c.baseURL + fmt.Sprintf(RouteVerifyTransaction, reference)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK {
		err = NewStatusCodeError(resp.StatusCode)
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		err = fmt.Errorf("read response: %s", readErr.Error())
		return nil, err
	}

	var parsed verifyResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		err = fmt.Errorf("parse response: %s", jsonErr.Error())
		return nil, err
	}

	return &domain.GatewayVerification{
		Reference:  parsed.Data.Reference,
		Status:     mapGatewayStatus(parsed.Data.Status),
		Amount:     parsed.Data.Amount,
		PayerEmail: parsed.Data.Customer.Email,
	}, nil
}

// mapGatewayStatus приводит строковый статус шлюза к доменному. Незнакомые
// статусы считаются незавершенными: деньги двигаются только по явному success.
func mapGatewayStatus(status string) domain.GatewayStatusType {
	switch status {
	case "success":
		return domain.GatewayStatusSuccess
	case "failed", "abandoned", "reversed":
		return domain.GatewayStatusFailed
	default:
		return domain.GatewayStatusPending
	}
}

func parseRetryAfter(header string) time.Duration {
	retryAfter, parseErr := strconv.Atoi(header)
	if parseErr != nil || retryAfter < minRetryAfter || retryAfter > maxRetryAfter {
		// в случае ошибки или неверных данных ставим 60 секунд
		retryAfter = 60 //nolint:mnd
	}
	return time.Duration(retryAfter) * time.Second
}
