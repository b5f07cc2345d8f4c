package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"
	"StockPulse/internal/saver"
	"StockPulse/internal/strategy"
)

// Request is one evaluation as entered by a user or a watchlist entry.
type Request struct {
	Symbol      string
	CompanyName string
	PhoneNumber string
	Action      string
}

// Result describes what an evaluation did.
type Result struct {
	ID        string
	Symbol    string
	Decision  *model.ChangeDecision
	Messages  []string
	Sent      int
	CSVPath   string
	ChartPath string
}

// Options wires a Service. Recorder and Log may be nil.
type Options struct {
	Quotes   QuoteSource
	News     NewsSource
	Sender   MessageSender
	Chart    ChartRenderer
	Saver    saver.QuoteSaver
	Recorder recorder.Recorder
	Log      *zap.Logger

	CSVPath   string
	ChartPath string
	// RequirePhone rejects notify requests without a destination number.
	RequirePhone bool
}

// Service runs fetch, decide, dump, news and notify or chart for one symbol.
// Evaluations run one at a time because they share the dump and chart files.
type Service struct {
	mu sync.Mutex

	quotes   QuoteSource
	news     NewsSource
	sender   MessageSender
	chart    ChartRenderer
	saver    saver.QuoteSaver
	recorder recorder.Recorder
	log      *zap.Logger

	csvPath      string
	chartPath    string
	requirePhone bool
}

// NewService creates a Service, filling in defaults for optional parts.
func NewService(o Options) *Service {
	s := &Service{
		quotes:       o.Quotes,
		news:         o.News,
		sender:       o.Sender,
		chart:        o.Chart,
		saver:        o.Saver,
		recorder:     o.Recorder,
		log:          o.Log,
		csvPath:      o.CSVPath,
		chartPath:    o.ChartPath,
		requirePhone: o.RequirePhone,
	}
	if s.saver == nil {
		s.saver = saver.CSVSaver{}
	}
	if s.recorder == nil {
		s.recorder = recorder.NewNoopRecorder()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.csvPath == "" {
		s.csvPath = "stock_data.csv"
	}
	if s.chartPath == "" {
		s.chartPath = "stock_chart.png"
	}
	return s
}

// Evaluate runs one request to completion. The first failure aborts it.
func (s *Service) Evaluate(ctx context.Context, req Request) (*Result, error) {
	symbol, action, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	res := &Result{ID: uuid.NewString(), Symbol: symbol}
	evt := &recorder.EvaluationEvent{
		ID:      res.ID,
		Symbol:  symbol,
		Company: req.CompanyName,
		Action:  string(action),
	}
	log := s.log.With(zap.String("id", res.ID), zap.String("symbol", symbol))

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.run(ctx, log, req, action, res, evt)
	if err != nil {
		evt.Error = err.Error()
		log.Warn("evaluation failed", zap.String("kind", Classify(err).String()), zap.Error(err))
	}
	if rerr := s.recorder.RecordEvaluation(evt); rerr != nil {
		log.Error("record evaluation failed", zap.Error(rerr))
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) validate(req *Request) (string, model.Action, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if req.Symbol == "" || req.CompanyName == "" {
		return "", "", &InputError{Msg: "Please fill all fields! Symbol and company name are required"}
	}
	action, err := model.ParseAction(req.Action)
	if err != nil {
		return "", "", &InputError{Msg: err.Error()}
	}
	if action == model.ActionNotify && s.requirePhone && req.PhoneNumber == "" {
		return "", "", &InputError{Msg: "Please fill all fields! A phone number is required to send messages"}
	}
	return req.Symbol, action, nil
}

func (s *Service) run(ctx context.Context, log *zap.Logger, req Request, action model.Action, res *Result, evt *recorder.EvaluationEvent) error {
	points, err := s.quotes.Collect(ctx, req.Symbol)
	if err != nil {
		return err
	}

	decision, err := strategy.Evaluate(req.Symbol, points)
	if err != nil {
		return err
	}
	res.Decision = decision
	evt.LatestClose = decision.LatestClose.String()
	evt.PreviousClose = decision.PreviousClose.String()
	evt.PercentChange = decision.PercentChange
	evt.Direction = string(decision.Direction)
	evt.ShouldNotify = decision.ShouldNotify

	res.CSVPath = s.dumpPath()
	if err := s.saver.Save(points, res.CSVPath); err != nil {
		return fmt.Errorf("write quote dump %s: %w", res.CSVPath, err)
	}

	log.Info("price change evaluated",
		zap.Int64("percent", decision.PercentChange),
		zap.String("direction", string(decision.Direction)),
		zap.Bool("notify", decision.ShouldNotify))

	if !decision.ShouldNotify {
		return nil
	}

	items, err := s.news.Search(ctx, model.NewsQuery{Symbol: req.Symbol, Company: req.CompanyName})
	if err != nil {
		return model.NewProviderError(s.news.Name(), err)
	}
	if len(items) > notifier.MaxNewsItems {
		items = items[:notifier.MaxNewsItems]
	}
	evt.NewsCount = len(items)
	res.Messages = notifier.FormatMessages(decision, items)

	switch action {
	case model.ActionNotify:
		return s.notify(ctx, log, req.PhoneNumber, res)
	case model.ActionShowChart:
		return s.plot(res, points)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, log *zap.Logger, to string, res *Result) error {
	sent, err := notifier.SendAll(ctx, s.sender, to, res.Messages)
	res.Sent = sent

	for i := 0; i < sent; i++ {
		s.recordNotification(log, res.ID, to, res.Messages[i], nil)
	}
	if err != nil && sent < len(res.Messages) {
		s.recordNotification(log, res.ID, to, res.Messages[sent], err)
	}
	if err != nil {
		return err
	}
	log.Info("messages sent", zap.String("channel", s.sender.Name()), zap.Int("count", sent))
	return nil
}

func (s *Service) recordNotification(log *zap.Logger, id, to, body string, sendErr error) {
	evt := &recorder.NotificationEvent{
		EvaluationID: id,
		Channel:      s.sender.Name(),
		To:           to,
		Body:         body,
	}
	if sendErr != nil {
		evt.Error = sendErr.Error()
	}
	if err := s.recorder.RecordNotification(evt); err != nil {
		log.Error("record notification failed", zap.Error(err))
	}
}

// plot reads the dump back when it is a CSV so the chart shows what was written.
func (s *Service) plot(res *Result, points []model.QuotePoint) error {
	series := points
	if s.saver.Extension() == "csv" {
		stored, err := saver.ReadCSV(res.CSVPath)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", model.ErrMalformedData, res.CSVPath, err)
		}
		series = stored
	}
	path, err := s.chart.Render(res.Symbol, series, s.chartPath)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	res.ChartPath = path
	return nil
}

// dumpPath swaps the configured extension for the saver's own.
func (s *Service) dumpPath() string {
	ext := "." + s.saver.Extension()
	if filepath.Ext(s.csvPath) == ext {
		return s.csvPath
	}
	return strings.TrimSuffix(s.csvPath, filepath.Ext(s.csvPath)) + ext
}
