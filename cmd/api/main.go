package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/cloud"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/http"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/ingest"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/repository"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applianceLog := appliance.New(appliance.NewRand(config.RandomSeed()))
	opts := service.Options{TariffRate: config.TariffRate()}

	if config.DBEnabled() {
		db, err := database.Connect()
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("db migrate failed")
		}
		repos := repository.New(db)
		opts.Archivers = append(opts.Archivers, repos)
		opts.Archive = repos
		log.Info().Msg("postgres archive enabled")
	}

	if config.UseCloudServices() {
		wireCloud(ctx, &opts)
	}

	svcs := service.New(applianceLog, opts)

	if config.MQTTEnabled() {
		sub := ingest.NewSubscriber(config.MQTTBroker(), config.MQTTTopic(), svcs.Appliances)
		if err := sub.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("mqtt ingest failed")
		}
		defer sub.Stop()
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${status} ${method} ${path} ${latency}\n",
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	}))

	httpHandlers.Register(app, svcs)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}

// wireCloud attaches the AWS sinks. A client that fails to initialise is
// skipped so the API still serves from memory.
func wireCloud(ctx context.Context, opts *service.Options) {
	region := config.AWSRegion()

	if dynamo, err := cloud.NewDynamoDBClient(ctx, region, config.DynamoTable()); err != nil {
		log.Error().Err(err).Msg("dynamodb client unavailable")
	} else {
		opts.Archivers = append(opts.Archivers, dynamo)
	}

	if arn := config.SNSTopicArn(); arn != "" {
		if notifier, err := cloud.NewSNSClient(ctx, region, arn); err != nil {
			log.Error().Err(err).Msg("sns client unavailable")
		} else {
			opts.Notifier = notifier
		}
	}

	if store, err := cloud.NewS3Client(ctx, region, config.S3Bucket()); err != nil {
		log.Error().Err(err).Msg("s3 client unavailable")
	} else {
		opts.Uploader = store
	}
	log.Info().Str("region", region).Msg("cloud services enabled")
}
