package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	// DatabaseName is fixed; it is not configurable.
	DatabaseName = "quizzbuzz"
	AppName      = "quizzbuzz"

	writeOptions = "retryWrites=true&w=majority"
)

// ConnectionError reports a failure to parse the connection string or to
// construct the client.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mongodb connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type MongoConfig struct {
	URI            string
	ConnectTimeout time.Duration
}

// BuildURI appends the fixed write options to the base connection string.
func BuildURI(base string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + writeOptions
}

// ClientOptions returns the options the client is built from.
func ClientOptions(config MongoConfig) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(BuildURI(config.URI)).
		SetAppName(AppName)

	if config.ConnectTimeout > 0 {
		opts.SetConnectTimeout(config.ConnectTimeout)
	}
	return opts
}

// Connect builds a client for the configured deployment. The driver connects
// lazily, so no round trip to the server happens here.
func Connect(config MongoConfig) (*mongo.Client, error) {
	if config.URI == "" {
		return nil, &ConnectionError{Err: fmt.Errorf("empty connection string")}
	}

	client, err := mongo.Connect(ClientOptions(config))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return client, nil
}

// Database returns the quizzbuzz database handle of client.
func Database(client *mongo.Client) *mongo.Database {
	return client.Database(DatabaseName)
}

// Ping verifies the deployment is reachable. Failure is reported but is not fatal
// for startup since operations reconnect on demand.
func Ping(ctx context.Context, client *mongo.Client, logger *zap.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Warn("could not verify MongoDB connection", zap.Error(err))
		return err
	}
	logger.Info("successfully connected to MongoDB", zap.String("database", DatabaseName))
	return nil
}

func Disconnect(client *mongo.Client, logger *zap.Logger) {
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("error disconnecting from MongoDB", zap.Error(err))
		return
	}
	logger.Info("successfully disconnected from MongoDB")
}
