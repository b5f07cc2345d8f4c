package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockPulse/internal/app"
	"StockPulse/internal/model"
)

// Evaluator runs one price-change evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, req app.Request) (*app.Result, error)
}

type EvaluateHandler struct {
	evaluator Evaluator
	log       *zap.Logger
}

func NewEvaluateHandler(evaluator Evaluator, log *zap.Logger) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator, log: log}
}

type EvaluateRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
	Action      string `json:"action"`
}

type DecisionResponse struct {
	LatestClose   string `json:"latest_close"`
	PreviousClose string `json:"previous_close"`
	Diff          string `json:"diff"`
	PercentChange int64  `json:"percent_change"`
	Direction     string `json:"direction"`
	ShouldNotify  bool   `json:"should_notify"`
}

type EvaluateResponse struct {
	ID        string           `json:"id"`
	Symbol    string           `json:"symbol"`
	Decision  DecisionResponse `json:"decision"`
	Messages  []string         `json:"messages"`
	Sent      int              `json:"sent"`
	CSVPath   string           `json:"csv_path"`
	ChartPath string           `json:"chart_path,omitempty"`
}

type ErrorResponse struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Error string `json:"error"`
}

func toDecisionResponse(d *model.ChangeDecision) DecisionResponse {
	return DecisionResponse{
		LatestClose:   d.LatestClose.String(),
		PreviousClose: d.PreviousClose.String(),
		Diff:          d.Diff.String(),
		PercentChange: d.PercentChange,
		Direction:     string(d.Direction),
		ShouldNotify:  d.ShouldNotify,
	}
}

func toEvaluateResponse(r *app.Result) EvaluateResponse {
	res := EvaluateResponse{
		ID:        r.ID,
		Symbol:    r.Symbol,
		Messages:  r.Messages,
		Sent:      r.Sent,
		CSVPath:   r.CSVPath,
		ChartPath: r.ChartPath,
	}
	if res.Messages == nil {
		res.Messages = []string{}
	}
	if r.Decision != nil {
		res.Decision = toDecisionResponse(r.Decision)
	}
	return res
}

func writeError(c *gin.Context, err error) {
	kind := app.Classify(err)
	c.JSON(kind.HTTPStatus(), ErrorResponse{
		Kind:  kind.String(),
		Title: kind.Title(),
		Error: err.Error(),
	})
}

func (h *EvaluateHandler) Evaluate(c *gin.Context) {
	var body EvaluateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &app.InputError{Msg: "invalid request body: " + err.Error()})
		return
	}

	res, err := h.evaluator.Evaluate(c.Request.Context(), app.Request{
		Symbol:      body.Symbol,
		CompanyName: body.CompanyName,
		PhoneNumber: body.PhoneNumber,
		Action:      body.Action,
	})
	if err != nil {
		h.log.Warn("evaluate request failed", zap.String("symbol", body.Symbol), zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEvaluateResponse(res))
}

func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
