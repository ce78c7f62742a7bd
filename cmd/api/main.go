package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/restokit/pos-core/internal/awsx"
	"github.com/restokit/pos-core/internal/catalog"
	"github.com/restokit/pos-core/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterPOSRoutes(r, cfg)

	return r
}

func taxRateFromEnv() float64 {
	raw := os.Getenv("TAX_RATE")
	if raw == "" {
		return 0.1
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("invalid TAX_RATE %q: %v", raw, err)
	}
	return rate
}

func main() {
	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	var menuCache *catalog.MenuCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		menuCache = catalog.NewMenuCache(redis.NewClient(&redis.Options{Addr: addr}))
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		MenuCache:        menuCache,
		ProductsTable:    os.Getenv("PRODUCTS_TABLE"),
		CombosTable:      os.Getenv("COMBOS_TABLE"),
		TablesTable:      os.Getenv("TABLES_TABLE"),
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		QueueURL:         os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		TaxRate:          taxRateFromEnv(),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
