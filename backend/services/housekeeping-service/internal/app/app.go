package app

import (
	"context"
	"fmt"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/config"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type App struct {
	Config *config.Config
	Client *mongo.Client
	DB     *mongo.Database
}

// NewApp connects to MongoDB, retrying with exponential backoff.
func NewApp(cfg *config.Config) (*App, error) {
	var (
		client  *mongo.Client
		err     error
		backoff = constants.DBConnectInitialBackoff
	)

	for i := 1; i <= constants.DBConnectMaxRetries; i++ {
		client, err = connect(cfg.MongoURI)
		if err == nil {
			utils.Logger.Infof("%s connected to MongoDB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, constants.DBConnectMaxRetries, backoff,
		)

		if i == constants.DBConnectMaxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", constants.DBConnectMaxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	return &App{
		Config: cfg,
		Client: client,
		DB:     client.Database(cfg.MongoDBName),
	}, nil
}

func connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetConnectTimeout(constants.DBConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping reports whether the primary is reachable.
func (a *App) Ping(ctx context.Context) error {
	return a.Client.Ping(ctx, readpref.Primary())
}

func (a *App) Close() {
	if a.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectTimeout)
	defer cancel()
	if err := a.Client.Disconnect(ctx); err != nil {
		utils.Logger.WithError(err).Warn("MongoDB disconnect failed")
		return
	}
	utils.Logger.Infof("%s DB connection closed.", a.Config.AppName)
}
