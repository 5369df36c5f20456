package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/glossline/detailing-booking/backend/internal/config"
	"github.com/glossline/detailing-booking/backend/internal/mailer"
	"github.com/glossline/detailing-booking/backend/internal/metrics"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		return
	}

	metrics.Register()

	/**********************************************
	 * smtp client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("cannot create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// fail fast on bad credentials
	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("cannot connect to mail server", slog.String("error", err.Error()))
		return
	}

	renderer, err := mailer.NewRenderer(cfg.Email.SMTP.Username, cfg.Business.Name)
	if err != nil {
		logger.Error("cannot load mail templates", slog.String("error", err.Error()))
		return
	}
	worker := mailer.NewWorker(renderer, client)

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("cannot connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("cannot open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := mailer.Declare(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("cannot declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag assigned by the broker
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("cannot consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	/**********************************************
	 * metrics endpoint
	 **********************************************/
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.MailWorker.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed")
					return
				}
				switch worker.Process(msg.Body) {
				case mailer.Ack:
					_ = msg.Ack(false)
				case mailer.Requeue:
					_ = msg.Nack(false, true)
				default:
					_ = msg.Nack(false, false)
				}
			}
		}
	}()

	logger.Info("waiting for mail messages", slog.String("queue", q.Name))
	<-sigChan

	logger.Info("shutting down mail worker")
	stop()
	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()
	_ = metricsSrv.Shutdown(shutdownCtx)

	logger.Info("mail worker stopped")
}
