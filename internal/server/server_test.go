package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository"
	mock_server "gitlab.ozon.dev/pupkingeorgij/orders/internal/server/mocks"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/service"
)

func newTestServer(t *testing.T) (*mock_server.MockOrderService, http.Handler) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mock_server.NewMockOrderService(ctrl)
	srv := New(mockService, zap.NewNop())
	return mockService, srv.setupRoutes()
}

func TestHandleInfo(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"api":"orders","version":"1.0"}`, rr.Body.String())
}

func TestHandleHealth(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(m *mock_server.MockOrderService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful order creation",
			body: `{"customer":"Ann","product":"Pen","quantity":2,"price":1.5}`,
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req service.CreateOrderRequest) (*repository.Order, error) {
						assert.Equal(t, "Ann", req.Customer)
						assert.Equal(t, "Pen", req.Product)
						assert.NotNil(t, req.Quantity)
						assert.Equal(t, 2, *req.Quantity)
						assert.Equal(t, 1.5, req.Price)
						return &repository.Order{
							ID:       1,
							Customer: "Ann",
							Product:  "Pen",
							Quantity: 2,
							Price:    1.5,
							Status:   repository.StatusNew,
						}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":1,"customer":"Ann","product":"Pen","quantity":2,"price":1.5,"status":"новый"}`,
		},
		{
			name: "quantity omitted",
			body: `{"customer":"Bob","product":"Cup","price":3}`,
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req service.CreateOrderRequest) (*repository.Order, error) {
						assert.Nil(t, req.Quantity)
						return &repository.Order{
							ID:       2,
							Customer: "Bob",
							Product:  "Cup",
							Quantity: 1,
							Price:    3,
							Status:   repository.StatusNew,
						}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":2,"customer":"Bob","product":"Cup","quantity":1,"price":3,"status":"новый"}`,
		},
		{
			name:           "invalid request body",
			body:           `{not json`,
			setupMocks:     func(m *mock_server.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:           "missing price",
			body:           `{"customer":"Ann","product":"Pen"}`,
			setupMocks:     func(m *mock_server.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"price is required"}`,
		},
		{
			name: "validation failure from service",
			body: `{"customer":"","product":"Pen","price":1}`,
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, service.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"validation failed"}`,
		},
		{
			name: "service failure",
			body: `{"customer":"Ann","product":"Pen","price":1}`,
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService, router := newTestServer(t)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleListOrders(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(m *mock_server.MockOrderService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "orders newest first",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return([]repository.Order{
					{ID: 2, Customer: "Bob", Product: "Cup", Quantity: 1, Price: 3, Status: "отправлен"},
					{ID: 1, Customer: "Ann", Product: "Pen", Quantity: 2, Price: 1.5, Status: repository.StatusNew},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[
				{"id":2,"customer":"Bob","product":"Cup","quantity":1,"price":3,"status":"отправлен"},
				{"id":1,"customer":"Ann","product":"Pen","quantity":2,"price":1.5,"status":"новый"}
			]`,
		},
		{
			name: "empty store yields empty array",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "service failure",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService, router := newTestServer(t)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           string
		setupMocks     func(m *mock_server.MockOrderService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "status from query parameter",
			target: "/orders/1/status?status=отправлен",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().SetStatus(gomock.Any(), int64(1), "отправлен").
					Return("Статус 1 изменен на отправлен", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Статус 1 изменен на отправлен"}`,
		},
		{
			name:   "status from json body",
			target: "/orders/1/status",
			body:   `{"status":"отправлен"}`,
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().SetStatus(gomock.Any(), int64(1), "отправлен").
					Return("Статус 1 изменен на отправлен", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Статус 1 изменен на отправлен"}`,
		},
		{
			name:           "invalid order id",
			target:         "/orders/abc/status?status=x",
			setupMocks:     func(m *mock_server.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid order ID"}`,
		},
		{
			name:           "missing status",
			target:         "/orders/1/status",
			setupMocks:     func(m *mock_server.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing status"}`,
		},
		{
			name:   "order not found",
			target: "/orders/999/status?status=x",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().SetStatus(gomock.Any(), int64(999), "x").
					Return("", service.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Нет заказа"}`,
		},
		{
			name:   "service failure",
			target: "/orders/1/status?status=x",
			setupMocks: func(m *mock_server.MockOrderService) {
				m.EXPECT().SetStatus(gomock.Any(), int64(1), "x").
					Return("", errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService, router := newTestServer(t)
			tc.setupMocks(mockService)

			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(http.MethodPut, tc.target, bytes.NewBufferString(tc.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(http.MethodPut, tc.target, nil)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
