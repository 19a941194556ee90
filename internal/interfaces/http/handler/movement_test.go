package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	stockapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

type movementHandlerFixture struct {
	movements *uowtest.MockMovementRepository
	contents  *uowtest.MockBinContentRepository
	router    *gin.Engine
}

func newMovementHandlerFixture() *movementHandlerFixture {
	f := &movementHandlerFixture{
		movements: new(uowtest.MockMovementRepository),
		contents:  new(uowtest.MockBinContentRepository),
	}
	service := stockapp.NewMovementService(f.movements, f.contents, zap.NewNop())
	h := NewMovementHandler(service)

	f.router = gin.New()
	f.router.GET("/movements", h.List)
	f.router.GET("/stock/:id/replay", h.Replay)
	return f
}

func newTestMovement(t *testing.T, content *stock.BinContent, movementType stock.MovementType, quantity, before decimal.Decimal) stock.Movement {
	t.Helper()
	m, err := stock.NewMovementBuilder(content, movementType).
		WithQuantityChange(quantity, before, before.Add(quantity)).
		WithReason("test").
		Build()
	require.NoError(t, err)
	return *m
}

func TestMovementHandlerList(t *testing.T) {
	f := newMovementHandlerFixture()

	binID := uuid.New()
	content := newTestBinContent(t, decimal.NewFromInt(30), time.Now().AddDate(0, 1, 0))
	receipt := newTestMovement(t, content, stock.MovementTypeReceipt, decimal.NewFromInt(30), decimal.Zero)

	f.movements.On("Find", mock.Anything, mock.MatchedBy(func(filter stock.MovementFilter) bool {
		return filter.BinID != nil && *filter.BinID == binID &&
			filter.Type != nil && *filter.Type == stock.MovementTypeReceipt &&
			filter.Page == 1 && filter.PageSize == 50
	})).Return([]stock.Movement{receipt}, int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/movements?bin_id="+binID.String()+"&type=receipt", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, string(stock.MovementTypeReceipt), first["type"])
	assert.Equal(t, "30", first["quantity"])
}

func TestMovementHandlerListTimeWindow(t *testing.T) {
	f := newMovementHandlerFixture()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	f.movements.On("Find", mock.Anything, mock.MatchedBy(func(filter stock.MovementFilter) bool {
		return filter.From != nil && filter.From.Equal(from) && filter.To == nil
	})).Return([]stock.Movement{}, int64(0), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/movements?from=2026-08-01T00:00:00Z", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMovementHandlerListBadTimestamp(t *testing.T) {
	f := newMovementHandlerFixture()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/movements?from=yesterday", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMovementHandlerListBadUUID(t *testing.T) {
	f := newMovementHandlerFixture()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/movements?bin_id=nope", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMovementHandlerReplayConsistent(t *testing.T) {
	f := newMovementHandlerFixture()

	content := newTestBinContent(t, decimal.NewFromInt(70), time.Now().AddDate(0, 1, 0))
	receipt := newTestMovement(t, content, stock.MovementTypeReceipt, decimal.NewFromInt(100), decimal.Zero)
	issue := newTestMovement(t, content, stock.MovementTypeIssue, decimal.NewFromInt(-30), decimal.NewFromInt(100))

	f.contents.On("FindByID", mock.Anything, content.ID).Return(content, nil)
	f.movements.On("FindByBinContent", mock.Anything, content.ID).
		Return([]stock.Movement{receipt, issue}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stock/"+content.ID.String()+"/replay", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["consistent"])
	assert.Equal(t, float64(2), data["movement_count"])
	assert.Equal(t, "70", data["computed_balance"])
	assert.Equal(t, "70", data["ledger_balance"])
}

func TestMovementHandlerReplayInvalidID(t *testing.T) {
	f := newMovementHandlerFixture()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stock/banana/replay", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
