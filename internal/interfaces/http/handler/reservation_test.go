package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	reservationapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

type reservationHandlerFixture struct {
	repos  *uowtest.Fixture
	router *gin.Engine
}

func newReservationHandlerFixture(operatorID uuid.UUID) *reservationHandlerFixture {
	f := &reservationHandlerFixture{repos: uowtest.NewFixture()}
	service := reservationapp.NewService(f.repos.Scope, zap.NewNop())
	h := NewReservationHandler(service, f.repos.Reservations)

	f.router = gin.New()
	group := f.router.Group("/", withOperator(operatorID, "picker"))
	group.POST("/reservations", h.Create)
	group.GET("/reservations", h.List)
	group.GET("/reservations/:id", h.Get)
	group.POST("/reservations/:id/fulfill", h.Fulfill)
	group.POST("/reservations/:id/cancel", h.Cancel)
	return f
}

func TestReservationHandlerCreate(t *testing.T) {
	operatorID := uuid.New()
	f := newReservationHandlerFixture(operatorID)

	warehouseID := uuid.New()
	productID := uuid.New()
	content, err := stock.NewBinContent(uuid.New(), warehouseID, productID, "BATCH-1",
		decimal.NewFromInt(100), time.Now().AddDate(0, 1, 0), time.Now())
	require.NoError(t, err)

	f.repos.Contents.On("FindAllocatable", mock.Anything, warehouseID, productID).
		Return([]stock.BinContent{*content}, nil)
	f.repos.Contents.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*stock.BinContent")).Return(nil)
	f.repos.Reservations.On("Save", mock.Anything, mock.AnythingOfType("*reservation.Reservation")).Return(nil)

	body := `{
		"warehouse_id": "` + warehouseID.String() + `",
		"product_id": "` + productID.String() + `",
		"quantity": "40",
		"reference": "ORDER-7"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "40", data["requested_quantity"])
	assert.Equal(t, "40", data["allocated_quantity"])
	assert.Equal(t, false, data["partial"])
	assert.Equal(t, string(reservation.StatusActive), data["status"])
	require.Len(t, data["lines"].([]interface{}), 1)
}

func TestReservationHandlerCreateWithoutOperator(t *testing.T) {
	f := newReservationHandlerFixture(uuid.New())

	router := gin.New()
	service := reservationapp.NewService(f.repos.Scope, zap.NewNop())
	h := NewReservationHandler(service, f.repos.Reservations)
	router.POST("/reservations", h.Create)

	body := `{"warehouse_id":"` + uuid.NewString() + `","product_id":"` + uuid.NewString() + `","quantity":"5"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReservationHandlerGet(t *testing.T) {
	f := newReservationHandlerFixture(uuid.New())

	r, err := reservation.NewReservation(uuid.New(), uuid.New(), decimal.NewFromInt(25), "ORDER-9", nil, uuid.New())
	require.NoError(t, err)
	f.repos.Reservations.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reservations/"+r.ID.String(), nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, r.ID.String(), data["id"])
	assert.Equal(t, "ORDER-9", data["reference"])
}

func TestReservationHandlerGetNotFound(t *testing.T) {
	f := newReservationHandlerFixture(uuid.New())

	id := uuid.New()
	f.repos.Reservations.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reservations/"+id.String(), nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationHandlerList(t *testing.T) {
	f := newReservationHandlerFixture(uuid.New())

	r, err := reservation.NewReservation(uuid.New(), uuid.New(), decimal.NewFromInt(5), "", nil, uuid.New())
	require.NoError(t, err)

	f.repos.Reservations.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["status"] == "active"
	})).Return([]reservation.Reservation{*r}, nil)
	f.repos.Reservations.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reservations?status=active", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Len(t, resp.Data.([]interface{}), 1)
}

func TestReservationHandlerCancelAlreadyTerminal(t *testing.T) {
	f := newReservationHandlerFixture(uuid.New())

	r, err := reservation.NewReservation(uuid.New(), uuid.New(), decimal.NewFromInt(5), "", nil, uuid.New())
	require.NoError(t, err)
	require.NoError(t, r.Cancel())
	f.repos.Reservations.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations/"+r.ID.String()+"/cancel", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeAlreadyTerminal, resp.Error.Code)
}
