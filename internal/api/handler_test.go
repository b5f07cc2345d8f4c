package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StockPulse/internal/app"
	"StockPulse/internal/model"
)

type fakeEvaluator struct {
	got app.Request
	res *app.Result
	err error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, req app.Request) (*app.Result, error) {
	f.got = req
	return f.res, f.err
}

func newTestRouter(ev Evaluator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(ev, []string{"http://localhost:3000"}, zap.NewNop())
}

func postEvaluate(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeEvaluator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`, w.Body.String())
}

func TestEvaluate_Success(t *testing.T) {
	ev := &fakeEvaluator{res: &app.Result{
		ID:     "id-1",
		Symbol: "TSLA",
		Decision: &model.ChangeDecision{
			Symbol:        "TSLA",
			LatestClose:   decimal.NewFromInt(105),
			PreviousClose: decimal.NewFromInt(100),
			Diff:          decimal.NewFromInt(5),
			PercentChange: 5,
			Direction:     model.DirectionUp,
			ShouldNotify:  true,
		},
		Messages: []string{"TSLA: ⬆️5%\nHeadline: A.\nBrief: B"},
		Sent:     1,
		CSVPath:  "stock_data.csv",
	}}
	r := newTestRouter(ev)

	w := postEvaluate(r, `{"symbol":"tsla","company_name":"Tesla Inc","phone_number":"+15550001111","action":"notify"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tsla", ev.got.Symbol)
	assert.Equal(t, "Tesla Inc", ev.got.CompanyName)
	assert.Equal(t, "+15550001111", ev.got.PhoneNumber)

	var res EvaluateResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "id-1", res.ID)
	assert.Equal(t, int64(5), res.Decision.PercentChange)
	assert.Equal(t, "UP", res.Decision.Direction)
	assert.Equal(t, "105", res.Decision.LatestClose)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, len(res.Messages))
}

func TestEvaluate_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"input", &app.InputError{Msg: "Please fill all fields!"}, http.StatusBadRequest, "Input Error"},
		{"provider", model.NewProviderError("newsapi", errors.New("apiKeyInvalid")), http.StatusBadGateway, "API Error"},
		{"data", model.ErrInsufficientData, http.StatusUnprocessableEntity, "Data Error"},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeEvaluator{err: tt.err})

			w := postEvaluate(r, `{"symbol":"TSLA","company_name":"Tesla Inc","action":"chart"}`)

			assert.Equal(t, tt.status, w.Code)
			var res ErrorResponse
			json.Unmarshal(w.Body.Bytes(), &res)
			assert.Equal(t, tt.title, res.Title)
			assert.Equal(t, tt.err.Error(), res.Error)
		})
	}
}

func TestEvaluate_BadJSON(t *testing.T) {
	ev := &fakeEvaluator{}
	r := newTestRouter(ev)

	w := postEvaluate(r, `{"symbol":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "", ev.got.Symbol)
}
