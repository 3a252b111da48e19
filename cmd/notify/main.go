package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/treydodson26/talo-studio/internal/events"
	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/scheduler"
	"github.com/treydodson26/talo-studio/internal/service"
	"github.com/treydodson26/talo-studio/internal/webhook"
	"github.com/treydodson26/talo-studio/internal/worker"
	"github.com/treydodson26/talo-studio/pkg/config"
	"github.com/treydodson26/talo-studio/pkg/db"
	"github.com/treydodson26/talo-studio/pkg/mq"
	"github.com/treydodson26/talo-studio/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())

	shutdownTracer := obs.InitTracer("studio-notify")
	defer shutdownTracer(context.Background())

	gdb := db.Open(cfg.PGStudioDSN)
	customers := repository.NewCustomerRepo(gdb)
	sequences := repository.NewSequenceRepo(gdb)
	comms := repository.NewCommsRepo(gdb)

	sender := webhook.NewClient(cfg.WorkflowWebhookURL)
	messaging := service.NewMessagingSvc(customers, sequences, comms, sender)

	// retry until the broker is up; compose starts us together
	var cons *mq.Consumer
	for {
		var err error
		cons, err = mq.NewConsumer(mq.ConsumerConfig{
			URL:      cfg.RabbitURL,
			Exchange: cfg.CRMExchange,
			Queue:    cfg.NotifyQueue,
			Bindings: []string{events.RKBookingCreated, events.RKBookingCancelled, events.RKBookingCheckedIn},
			Prefetch: 16,
			DLXName:  cfg.NotifyDLX,
			DLXQueue: cfg.NotifyDLQueue,
		})
		if err == nil {
			break
		}
		log.Printf("[notify] connect failed: %v; retry in 2s", err)
		time.Sleep(2 * time.Second)
	}
	defer cons.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := worker.NewConsumer(cons, messaging).Run(ctx); err != nil {
			log.Printf("[notify] run error: %v", err)
		}
	}()

	var mailer scheduler.Mailer = scheduler.NewConsoleMailer()
	if cfg.WorkflowWebhookURL != "" {
		mailer = scheduler.NewWebhookMailer(sender)
	}
	sched := scheduler.New(comms, mailer)
	sched.Start()
	defer sched.Stop()

	log.Printf("[notify] started. queue=%s exchange=%s", cfg.NotifyQueue, cfg.CRMExchange)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	time.Sleep(200 * time.Millisecond)
	log.Println("[notify] stopped")
}
