package testhelpers

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestHelper encapsulates all necessary components for running integration tests across services.
type TestHelper struct {
	T       *testing.T
	Ctx     context.Context
	BaseURL string
	Mongo   *mongo.Client
	DB      *mongo.Database

	// From ldflags
	AppName string

	// Repositories
	PropertyRepo repositories.PropertyRepository
	RoomRepo     repositories.RoomRepository
}

// NewTestHelper loads the environment, connects to the same MongoDB the
// service under test uses and initialises repositories. It's designed to be
// called once from a TestMain-driven test.
func NewTestHelper(t *testing.T, appName string) *TestHelper {
	// 1. Load environment
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	if baseURL == "" {
		log.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI env var is missing")
	}
	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "kiwiops"
	}

	// 2. Connect
	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")
	require.NoError(t, client.Ping(connectCtx, nil), "Failed to ping MongoDB")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(dbName)

	// 3. Initialize all repositories and the helper
	return &TestHelper{
		T:            t,
		Ctx:          ctx,
		BaseURL:      baseURL,
		Mongo:        client,
		DB:           db,
		AppName:      appName,
		PropertyRepo: repositories.NewPropertyRepository(db),
		RoomRepo:     repositories.NewRoomRepository(db),
	}
}
