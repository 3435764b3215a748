package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "order-service"

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	DatabaseName      string
	AuthServiceURL    string
	CartServiceURL    string
	ProductServiceURL string
	DownstreamTimeout time.Duration
	StockWorkers      int
	StockQueueSize    int
	ShutdownTimeout   time.Duration
	KafkaBrokers      []string
	OrderEventsTopic  string
	OTLPEndpoint      string
}

const (
	defaultPort              = "3004"
	defaultDatabaseName      = "order_service"
	defaultDownstreamTimeout = 10 * time.Second
	defaultStockWorkers      = 4
	defaultStockQueueSize    = 256
	defaultShutdownTimeout   = 10 * time.Second
	defaultOrderEventsTopic  = "order-events"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", ":"+getString(lookup, "PORT", defaultPort)),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		DatabaseName:      getString(lookup, "DATABASE_NAME", defaultDatabaseName),
		AuthServiceURL:    getString(lookup, "AUTH_SERVICE_URL", ""),
		CartServiceURL:    getString(lookup, "CART_SERVICE_URL", ""),
		ProductServiceURL: getString(lookup, "PRODUCT_SERVICE_URL", ""),
		DownstreamTimeout: getDuration(lookup, "DOWNSTREAM_TIMEOUT", defaultDownstreamTimeout),
		StockWorkers:      getInt(lookup, "STOCK_WORKERS", defaultStockWorkers),
		StockQueueSize:    getInt(lookup, "STOCK_QUEUE_SIZE", defaultStockQueueSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		OrderEventsTopic:  getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		OTLPEndpoint:      getString(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	fs := flag.NewFlagSet("orderservice", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		downstreamTimeoutStr = cfg.DownstreamTimeout.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		kafkaBrokers         = getString(lookup, "KAFKA_BROKERS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL or MongoDB DSN")
	fs.StringVar(&cfg.DatabaseName, "db-name", cfg.DatabaseName, "MongoDB database name")
	fs.StringVar(&cfg.AuthServiceURL, "auth-url", cfg.AuthServiceURL, "Auth service base URL")
	fs.StringVar(&cfg.CartServiceURL, "cart-url", cfg.CartServiceURL, "Cart service base URL")
	fs.StringVar(&cfg.ProductServiceURL, "product-url", cfg.ProductServiceURL, "Product service base URL")
	fs.StringVar(&downstreamTimeoutStr, "downstream-timeout", downstreamTimeoutStr, "Timeout for a single downstream call")
	fs.IntVar(&cfg.StockWorkers, "stock-workers", cfg.StockWorkers, "Number of concurrent stock update workers")
	fs.IntVar(&cfg.StockQueueSize, "stock-queue", cfg.StockQueueSize, "Capacity of the stock update queue")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", kafkaBrokers, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.OrderEventsTopic, "events-topic", cfg.OrderEventsTopic, "Kafka topic for order events")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DownstreamTimeout, err = time.ParseDuration(downstreamTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid downstream timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(kafkaBrokers)

	if cfg.StockWorkers <= 0 {
		cfg.StockWorkers = defaultStockWorkers
	}

	if cfg.StockQueueSize <= 0 {
		cfg.StockQueueSize = defaultStockQueueSize
	}

	if cfg.DownstreamTimeout <= 0 {
		cfg.DownstreamTimeout = defaultDownstreamTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OrderEventsTopic == "" {
		cfg.OrderEventsTopic = defaultOrderEventsTopic
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AuthServiceURL == "" {
		return nil, fmt.Errorf("auth service URL must be provided")
	}

	if cfg.CartServiceURL == "" {
		return nil, fmt.Errorf("cart service URL must be provided")
	}

	if cfg.ProductServiceURL == "" {
		return nil, fmt.Errorf("product service URL must be provided")
	}

	return cfg, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
