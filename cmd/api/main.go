package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/treydodson26/talo-studio/internal/cache"
	"github.com/treydodson26/talo-studio/internal/handlers"
	"github.com/treydodson26/talo-studio/internal/llm"
	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/service"
	"github.com/treydodson26/talo-studio/internal/webhook"
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

	shutdownTracer := obs.InitTracer("studio-api")
	defer shutdownTracer(context.Background())

	gdb := db.Open(cfg.PGStudioDSN)

	customers := repository.NewCustomerRepo(gdb)
	classes := repository.NewClassRepo(gdb)
	bookings := repository.NewBookingRepo(gdb)
	sequences := repository.NewSequenceRepo(gdb)
	comms := repository.NewCommsRepo(gdb)
	campaigns := repository.NewCampaignRepo(gdb)
	metrics := repository.NewMetricsRepo(gdb)
	for _, m := range []interface{ Migrate() error }{customers, classes, bookings, sequences, comms, campaigns} {
		must(0, m.Migrate())
	}

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.CRMExchange))
	defer pub.Close()

	var kpiCache *cache.Cache
	if cfg.RedisURL != "" {
		var err error
		if kpiCache, err = cache.New(context.Background(), cfg.RedisURL); err != nil {
			log.Printf("[api] redis unavailable, dashboard cache off: %v", err)
		} else {
			defer kpiCache.Close()
		}
	}

	sender := webhook.NewClient(cfg.WorkflowWebhookURL)
	bookingSvc := service.NewBookingSvc(bookings, classes, customers, pub)
	nurtureSvc := service.NewNurtureSvc(customers, sequences)
	messagingSvc := service.NewMessagingSvc(customers, sequences, comms, sender)
	campaignSvc := service.NewCampaignSvc(campaigns, customers, comms)
	dashboardSvc := service.NewDashboardSvc(metrics, classes, bookings, kpiCache)
	insightsSvc := service.NewInsightsSvc(metrics, nurtureSvc, llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	importSvc := service.NewImportSvc(customers)

	r := gin.Default()
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	v1 := r.Group("/v1")
	{
		cu := handlers.NewCustomerHandler(customers, importSvc, messagingSvc)
		v1.POST("/customers", cu.Create)
		v1.GET("/customers", cu.List)
		v1.POST("/customers/import", cu.Import)
		v1.GET("/customers/:id", cu.Get)
		v1.PUT("/customers/:id", cu.Update)
		v1.GET("/customers/:id/communications", cu.Communications)

		ch := handlers.NewClassHandler(classes, bookingSvc)
		v1.POST("/classes", ch.Create)
		v1.GET("/classes", ch.List)
		v1.GET("/classes/:id", ch.Get)
		v1.PUT("/classes/:id", ch.Update)

		bh := handlers.NewBookingHandler(bookingSvc)
		v1.POST("/bookings", bh.Create)
		v1.GET("/bookings", bh.List)
		v1.GET("/bookings/:id", bh.Get)
		v1.POST("/bookings/:id/cancel", bh.Cancel)
		v1.POST("/bookings/:id/checkin", bh.CheckIn)

		sh := handlers.NewSequenceHandler(nurtureSvc, messagingSvc)
		v1.GET("/sequences/groups", sh.Groups)
		v1.GET("/sequences/pipeline", sh.Pipeline)
		v1.POST("/sequences/:day/send", sh.Send)

		ca := handlers.NewCampaignHandler(campaignSvc)
		v1.POST("/campaigns", ca.Create)
		v1.GET("/campaigns", ca.List)
		v1.GET("/campaigns/:id", ca.Get)
		v1.POST("/campaigns/:id/send", ca.Send)
		v1.GET("/segments", ca.Segments)

		dh := handlers.NewDashboardHandler(dashboardSvc)
		v1.GET("/dashboard/metrics", dh.Metrics)
		v1.POST("/dashboard/segments/refresh", dh.RefreshSegments)

		ih := handlers.NewInsightsHandler(insightsSvc)
		v1.POST("/insights/query", ih.Query)
	}

	srv := &http.Server{Addr: cfg.APIHTTPAddr, Handler: r}
	go func() {
		log.Println("[api] listening on", cfg.APIHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("[api] stopped")
}
