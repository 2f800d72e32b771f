package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/adapter/memory"
	"github.com/yumyum-pos/orderdesk/internal/adapter/postgres"
	"github.com/yumyum-pos/orderdesk/internal/adapter/printer"
	"github.com/yumyum-pos/orderdesk/internal/adapter/rabbitmq"
	"github.com/yumyum-pos/orderdesk/internal/app/hours"
	"github.com/yumyum-pos/orderdesk/internal/app/lifecycle"
	"github.com/yumyum-pos/orderdesk/internal/app/reporting"
	"github.com/yumyum-pos/orderdesk/internal/config"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"

	amqpAdapter "github.com/yumyum-pos/orderdesk/internal/adapter/amqp"
	httpAdapter "github.com/yumyum-pos/orderdesk/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: pos-service, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "pos-service":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		runPOSService(ctx, cfg, db, mqConn, lgr, *prefetch)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runPOSService(ctx context.Context, cfg *config.Config, db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, prefetch int) {
	store := memory.NewOrderStore()
	history := postgres.NewHistoryRepository(db)
	notifier := rabbitmq.NewPublisher(mqConn)

	spool, err := openSpool(cfg.Printer.SpoolDir)
	if err != nil {
		log.Fatalf("Failed to open receipt spool: %v", err)
	}
	printSink := printer.NewSink(cfg.Store.Name, cfg.Printer.AutoPrintEnabled, spool, lgr)

	gate := buildGate(cfg)
	settings := configSettings{cfg: cfg}

	engine := lifecycle.NewEngine(store, history, printSink, notifier, settings, systemClock{}, gate, lgr)
	reportingService := reporting.NewService(history, lgr)

	operatorHandler := httpAdapter.NewOperatorHandler(engine, history, lgr)
	reportingHandler := httpAdapter.NewReportingHandler(reportingService, lgr)
	intakeHandler := amqpAdapter.NewIntakeHandler(engine, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", operatorHandler.HandleOrders)
	mux.HandleFunc("/orders/", operatorHandler.HandleOrders)
	mux.HandleFunc("/reports/", reportingHandler.HandleReports)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer := rabbitmq.NewConsumer(mqConn, prefetch, lgr)
	go func() {
		if err := consumer.ConsumeIntake(runCtx, intakeHandler.HandleIntake); err != nil && runCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming intake queue", "runtime", nil, err)
		}
	}()

	go runTriggers(runCtx, engine)

	lgr.Info("service_started", fmt.Sprintf("POS Service started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":  cfg.HTTP.Port,
		"store": cfg.Store.Name,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down POS Service", "shutdown", nil)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

// runTriggers drives the engine's periodic work: the elapsed counter every
// second, the alert sweep every five minutes and a full revalidation every
// ten minutes.
func runTriggers(ctx context.Context, engine *lifecycle.Engine) {
	tick := time.NewTicker(1 * time.Second)
	alerts := time.NewTicker(5 * time.Minute)
	revalidate := time.NewTicker(10 * time.Minute)
	defer tick.Stop()
	defer alerts.Stop()
	defer revalidate.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			engine.Tick()
		case <-alerts.C:
			engine.CheckAlerts(ctx)
		case <-revalidate.C:
			engine.RevalidateAll()
		}
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn, 1, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := consumer.ConsumeNotifications(runCtx, notificationHandler.HandleNotification); err != nil && runCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}

func openSpool(dir string) (io.Writer, error) {
	if dir == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "receipts.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// buildGate picks the business-hours gate: the per-weekday operating
// schedule when configured, otherwise the flat open/close window.
func buildGate(cfg *config.Config) hours.Gate {
	if !cfg.Operating.Enabled {
		return hours.Window{Open: cfg.Hours.Open, Close: cfg.Hours.Close}
	}

	info := hours.OperatingInfo{
		Days: make(map[time.Weekday]hours.DayHours),
		Break: hours.BreakTime{
			Enabled: cfg.Operating.Break.Enabled,
			Start:   cfg.Operating.Break.Start,
			End:     cfg.Operating.Break.End,
		},
		TempHolidays: cfg.Operating.TempHolidays,
	}
	for name, day := range cfg.Operating.Days {
		weekday, ok := parseWeekday(name)
		if !ok {
			log.Fatalf("Invalid weekday in operating config: %s", name)
		}
		info.Days[weekday] = hours.DayHours{Enabled: day.Enabled, Open: day.Open, Close: day.Close}
	}
	for _, name := range cfg.Operating.RegularHolidays {
		weekday, ok := parseWeekday(name)
		if !ok {
			log.Fatalf("Invalid weekday in operating config: %s", name)
		}
		info.RegularHolidays = append(info.RegularHolidays, weekday)
	}

	return hours.NewOperatingGate(info)
}

func parseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return d, true
		}
	}
	return 0, false
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// configSettings exposes the loaded configuration as engine settings.
type configSettings struct {
	cfg *config.Config
}

func (s configSettings) Get() interfaces.Settings {
	return interfaces.Settings{
		AutoAcceptEnabled:     s.cfg.AutoAccept.Enabled,
		AutoAcceptMinutes:     s.cfg.AutoAccept.PreparationMinutes,
		MinOrderAmount:        s.cfg.Rules.MinOrderAmount,
		MaxItemsPerOrder:      s.cfg.Rules.MaxItemsPerOrder,
		MaxOrdersPerHour:      s.cfg.Rules.MaxOrdersPerHour,
		MaxPreparationMinutes: s.cfg.Rules.MaxPreparationMinutes,
		CancelTimeoutMinutes:  s.cfg.Rules.CancelTimeoutMinutes,
		DelayThresholdMinutes: s.cfg.Rules.DelayThresholdMinutes,
	}
}
