package fulfillment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *ClientTestSuite) TestDispatch() {
	cases := []struct {
		name       string
		httpStatus int
		wantResult domain.DispatchResultType
		wantErr    bool
	}{
		{name: "accepted", httpStatus: http.StatusOK, wantResult: domain.DispatchAccepted},
		{name: "accepted async", httpStatus: http.StatusAccepted, wantResult: domain.DispatchAccepted},
		{name: "rejected", httpStatus: http.StatusBadRequest, wantResult: domain.DispatchRejected},
		{name: "rejected unknown subscriber", httpStatus: http.StatusUnprocessableEntity, wantResult: domain.DispatchRejected},
		{name: "server error is ambiguous", httpStatus: http.StatusInternalServerError, wantResult: domain.DispatchAmbiguous, wantErr: true},
		{name: "bad gateway is ambiguous", httpStatus: http.StatusBadGateway, wantResult: domain.DispatchAmbiguous, wantErr: true},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s.Equal(http.MethodPost, r.Method)
				s.Equal(RouteDispatch, r.URL.Path)

				var req dispatchRequest
				s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
				s.Equal("DL-PURCHASE-abc123", req.Reference)
				s.Equal("MTN", req.Network)

				w.WriteHeader(tc.httpStatus)
			}))
			defer s.server.Close()

			client := New(s.server.URL, 5*time.Second)
			result, err := client.Dispatch(context.Background(), domain.DispatchRequest{
				Reference:   "DL-PURCHASE-abc123",
				Network:     "MTN",
				PlanID:      "1",
				PhoneNumber: "0241234567",
			})

			s.Equal(tc.wantResult, result)
			if tc.wantErr {
				s.Error(err)
			} else {
				s.NoError(err)
			}
		})
	}
}

// TestDispatch_Timeout исход по таймауту неизвестен: запрос мог дойти до оператора.
func (s *ClientTestSuite) TestDispatch_Timeout() {
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	client := New(s.server.URL, 50*time.Millisecond)
	result, err := client.Dispatch(context.Background(), domain.DispatchRequest{
		Reference:   "DL-PURCHASE-abc123",
		Network:     "MTN",
		PlanID:      "1",
		PhoneNumber: "0241234567",
	})

	s.Error(err)
	s.Equal(domain.DispatchAmbiguous, result)
}
