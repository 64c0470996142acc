package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/ctrevinoi1/agent/agent"
	"github.com/ctrevinoi1/agent/api"
	"github.com/ctrevinoi1/agent/collector"
	"github.com/ctrevinoi1/agent/config"
	"github.com/ctrevinoi1/agent/dedupe"
	"github.com/ctrevinoi1/agent/ethics"
	"github.com/ctrevinoi1/agent/kafka"
	"github.com/ctrevinoi1/agent/orchestrator"
	"github.com/ctrevinoi1/agent/reporter"
	"github.com/ctrevinoi1/agent/storage"
	"github.com/ctrevinoi1/agent/tools"
	"github.com/ctrevinoi1/agent/verifier"
)

func main() {
	log.SetOutput(os.Stderr)

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.CohereAPIKey == "" {
		log.Fatal("COHERE_API_KEY is required")
	}

	factory, archive, cleanup, err := buildFactory(cfg)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}
	defer cleanup()

	svc := api.NewService(factory)

	if len(cfg.KafkaBrokers) > 0 {
		if err := startKafkaIntake(cfg, svc); err != nil {
			log.Fatalf("kafka intake failed: %v", err)
		}
	}
	if cfg.CronSchedule != "" && cfg.CronQuery != "" {
		startCron(cfg, svc)
	}

	r := api.NewRouter(svc)
	if archive != nil {
		api.RegisterMediaRoutes(r, archive)
	}
	addr := ":" + cfg.Port
	log.Printf("Starting OSINT engine on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  POST /api/query")
	log.Println("  GET  /api/status")
	log.Println("  GET  /api/report")
	if archive != nil {
		log.Println("  GET  /api/media/*key")
	}
	log.Println("  GET  /ws")
	log.Println("  GET  /health")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildFactory wires the tools and stages and returns the per-query
// orchestrator factory. Optional integrations that fail to initialize are
// disabled with a warning rather than aborting startup.
func buildFactory(cfg *config.Config) (api.Factory, *storage.Archive, func(), error) {
	completer := agent.NewCohereCompleter(cfg.CohereAPIKey, cfg.CohereModel)

	var archive *storage.Archive
	if cfg.S3Bucket != "" {
		var err error
		archive, err = storage.NewArchive(context.Background(), storage.ArchiveConfig{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
			Prefix: cfg.S3Prefix,
		})
		if err != nil {
			log.Printf("Warning: S3 archive disabled: %v", err)
			archive = nil
		}
	}

	media, err := tools.NewMediaStore(cfg.MediaDir, archive)
	if err != nil {
		return nil, nil, nil, err
	}

	var filter *dedupe.Filter
	var reliabilityCache *redis.Client
	if cfg.RedisAddr != "" {
		filter, err = dedupe.NewFilter(dedupe.FilterConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: URL dedupe disabled: %v", err)
			filter = nil
		}
		reliabilityCache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
	}

	collectTools := collector.Toolset{
		Media: media,
	}
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		collectTools.Web = tools.NewWebSearcher(cfg.GoogleAPIKey, cfg.GoogleCSEID)
	} else {
		log.Println("Warning: GOOGLE_API_KEY/GOOGLE_CSE_ID unset, web search disabled")
	}
	if cfg.SocialSearchURL != "" {
		collectTools.Social = tools.NewSocialSearcher(cfg.SocialSearchURL)
	} else {
		log.Println("Warning: SOCIAL_SEARCH_URL unset, social media search disabled")
	}
	collectTools.News = tools.NewNewsSearcher(cfg.NewsFeeds)

	verifyTools := verifier.Toolset{
		Reliability: tools.NewReliabilityChecker(reliabilityCache),
	}
	if cfg.ForensicsURL != "" {
		verifyTools.Forensics = tools.NewForensicsClient(cfg.ForensicsURL)
	}

	factory := func(query string) *orchestrator.Orchestrator {
		col, err := collector.New(completer, collectTools, filter, cfg)
		if err != nil {
			log.Fatalf("collector setup failed: %v", err)
		}
		ver, err := verifier.New(completer, verifyTools)
		if err != nil {
			log.Fatalf("verifier setup failed: %v", err)
		}
		stages := orchestrator.Stages{
			Collector: col,
			Verifier:  ver,
			Reporter:  reporter.New(completer),
			Filter:    ethics.New(completer),
		}
		return orchestrator.New(query, stages, nil)
	}

	cleanup := func() {
		if filter != nil {
			_ = filter.Close()
		}
		if reliabilityCache != nil {
			_ = reliabilityCache.Close()
		}
	}
	return factory, archive, cleanup, nil
}

// startKafkaIntake consumes query messages and runs them through the same
// service the REST surface uses, publishing the outcome to the report topic.
func startKafkaIntake(cfg *config.Config, svc *api.Service) error {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.ReportTopic)
	if err != nil {
		return err
	}

	handler := &kafka.TypedMessageHandler[kafka.QueryMessage]{
		Validate:   func(msg *kafka.QueryMessage) bool { return msg.Query != "" },
		AlwaysMark: true,
		Process: func(ctx context.Context, msg *kafka.QueryMessage) error {
			run, err := svc.StartRun(msg.Query)
			if err != nil {
				// A busy rejection is final for this message.
				log.Printf("kafka: dropping query %q: %v", msg.Query, err)
				return nil
			}
			report, err := run.Run(ctx)
			outcome := kafka.ReportMessage{Query: msg.Query, Report: report}
			if err != nil {
				outcome = kafka.ReportMessage{Query: msg.Query, Error: err.Error()}
			}
			if perr := producer.PublishReport(outcome); perr != nil {
				log.Printf("kafka: failed to publish report for %q: %v", msg.Query, perr)
			}
			return err
		},
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.QueryTopic,
		GroupID: cfg.KafkaGroupID,
		Handler: handler,
	})
	if err != nil {
		return err
	}
	return consumer.Start(context.Background())
}

// startCron schedules a standing query. A tick is skipped while a previous
// run is still in flight.
func startCron(cfg *config.Config, svc *api.Service) {
	c := cron.New()
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		run, err := svc.StartRun(cfg.CronQuery)
		if err != nil {
			log.Printf("cron: skipping tick: %v", err)
			return
		}
		if _, err := run.Run(context.Background()); err != nil {
			log.Printf("cron: standing query failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid CRON_SCHEDULE %q: %v", cfg.CronSchedule, err)
	}
	c.Start()
	log.Printf("Scheduled standing query %q (%s)", cfg.CronQuery, cfg.CronSchedule)
}
