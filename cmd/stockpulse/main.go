package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockPulse/internal/api"
	"StockPulse/internal/app"
	"StockPulse/internal/chart"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/logger"
	"StockPulse/internal/news"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"
	"StockPulse/internal/saver"
	"StockPulse/internal/scheduler"
)

const usage = `Usage: stockpulse <command> [flags]

Commands:
  check   evaluate one symbol and notify or chart
  serve   run the HTTP API
  watch   run the daily watchlist and Telegram commands`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case config.ModeCheck:
		err = runCheck(os.Args[2:])
	case config.ModeServe:
		err = runServe(os.Args[2:])
	case config.ModeWatch:
		err = runWatch(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.Classify(err).Title(), err)
		os.Exit(1)
	}
}

// components holds everything a command needs once config is loaded.
type components struct {
	cfg      *config.Config
	log      *zap.Logger
	service  *app.Service
	sender   notifier.Sender
	recorder recorder.Recorder
}

func (rt *components) close() {
	if err := rt.recorder.Close(); err != nil {
		rt.log.Warn("close recorder", zap.Error(err))
	}
	_ = rt.log.Sync()
}

func bootstrap(ctx context.Context, mode, cfgPath string) (*components, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.NeedsSSM() {
		client, err := config.NewSSMClient(ctx)
		if err != nil {
			return nil, err
		}
		if err := cfg.ResolveSecrets(ctx, client); err != nil {
			return nil, fmt.Errorf("resolve secrets: %w", err)
		}
	}
	if err := cfg.Validate(mode); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	fetcher, err := collector.NewFetcher(cfg.Quote.Provider, cfg.Quote.BaseURL, cfg.Quote.APIKey, cfg.Quote.Proxy)
	if err != nil {
		return nil, err
	}
	newsClient, err := news.New(cfg.News.Provider, cfg.News.BaseURL, cfg.News.APIKey, cfg.Quote.Proxy)
	if err != nil {
		return nil, err
	}
	sender, err := notifier.New(cfg.Messaging.Channel, notifier.Options{
		TwilioAccountSID: cfg.Messaging.Twilio.AccountSID,
		TwilioAuthToken:  cfg.Messaging.Twilio.AuthToken,
		TwilioFrom:       cfg.Messaging.Twilio.FromNumber,
		TelegramToken:    cfg.Messaging.Telegram.BotToken,
		TelegramChatID:   cfg.Messaging.Telegram.ChatID,
		Proxy:            cfg.Quote.Proxy,
	}, log)
	if err != nil {
		return nil, err
	}
	quoteSaver := saver.NewQuoteSaver(cfg.Output.Format)
	if quoteSaver == nil {
		return nil, fmt.Errorf("unsupported output format %q", cfg.Output.Format)
	}

	rec, err := recorder.Open(cfg.Database.Driver, cfg.Database.SQLitePath, cfg.Database.PostgresDSN, log)
	if err != nil {
		log.Warn("init recorder failed, using noop", zap.Error(err))
		rec = recorder.NewNoopRecorder()
	}

	log.Info("stockpulse configured",
		zap.String("mode", mode),
		zap.String("quotes", fetcher.Name()),
		zap.String("news", newsClient.Name()),
		zap.String("channel", sender.Name()),
		zap.String("database", cfg.Database.Driver))

	svc := app.NewService(app.Options{
		Quotes:       collector.NewCollector(fetcher, log),
		News:         newsClient,
		Sender:       sender,
		Chart:        chart.NewRenderer(),
		Saver:        quoteSaver,
		Recorder:     rec,
		Log:          log,
		CSVPath:      cfg.Output.CSVPath,
		ChartPath:    cfg.Output.ChartPath,
		RequirePhone: strings.ToLower(cfg.Messaging.Channel) != "telegram",
	})
	return &components{cfg: cfg, log: log, service: svc, sender: sender, recorder: rec}, nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet(config.ModeCheck, flag.ExitOnError)
	cfgPath := fs.String("config", config.ResolvePath(), "path to config.yaml")
	symbol := fs.String("symbol", "", "stock symbol, e.g. TSLA")
	company := fs.String("company", "", "company name used for the news search")
	phone := fs.String("phone", "", "destination number for notify")
	action := fs.String("action", "notify", "chart or notify")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, config.ModeCheck, *cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := rt.service.Evaluate(ctx, app.Request{
		Symbol:      *symbol,
		CompanyName: *company,
		PhoneNumber: *phone,
		Action:      *action,
	})
	if err != nil {
		return err
	}

	fmt.Println(notifier.FormatDecision(res.Decision))
	fmt.Printf("Series saved to %s\n", res.CSVPath)
	for _, m := range res.Messages {
		fmt.Printf("\n%s\n", m)
	}
	if res.Sent > 0 {
		fmt.Printf("\nMessages sent successfully! (%d via %s)\n", res.Sent, rt.sender.Name())
	}
	if res.ChartPath != "" {
		fmt.Printf("\nChart saved to %s\n", res.ChartPath)
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet(config.ModeServe, flag.ExitOnError)
	cfgPath := fs.String("config", config.ResolvePath(), "path to config.yaml")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, config.ModeServe, *cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.cfg.Log.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    rt.cfg.Server.Addr,
		Handler: api.NewRouter(rt.service, rt.cfg.Server.AllowedOrigins, rt.log),
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet(config.ModeWatch, flag.ExitOnError)
	cfgPath := fs.String("config", config.ResolvePath(), "path to config.yaml")
	runNow := fs.Bool("now", os.Getenv("RUN_ON_START") == "true", "evaluate the watchlist immediately")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, config.ModeWatch, *cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	var tn *notifier.TelegramNotifier
	if tg := rt.cfg.Messaging.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		tn = notifier.NewTelegramNotifier(tg.BotToken, tg.ChatID, rt.cfg.Quote.Proxy, rt.log)
	}

	var reporter scheduler.Reporter
	if tn != nil {
		reporter = tn
	}
	sched := scheduler.NewScheduler(ctx, rt.service, rt.cfg.Watchlist, reporter, rt.log)
	if err := sched.Register(rt.cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		rt.log.Info("telegram polling started")
	}
	if *runNow {
		rt.log.Info("running watchlist on start")
		go sched.RunDailyNow()
	}

	rt.log.Info("stockpulse is watching, press Ctrl+C to stop", zap.String("cron", rt.cfg.Schedule.DailyCron))
	<-ctx.Done()
	rt.log.Info("shutdown signal received, stopping")
	return nil
}
