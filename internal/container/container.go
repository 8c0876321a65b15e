package container

import (
	"log/slog"

	"github.com/renttime/renttime-server/internal/config"
	"github.com/renttime/renttime-server/internal/helpers"
	"github.com/renttime/renttime-server/internal/models"
	"github.com/renttime/renttime-server/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Config        *config.Config
	MongoDBClient *mongo.Client
	MongoRepo     *models.MongodbRepo
	Verifier      helpers.TokenVerifier

	UserService    *services.UserService
	ListingService *services.ListingService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, cfg *config.Config, mongoDBClient *mongo.Client) (*Container, error) {
	repo := models.MongodbNewRepo(mongoDBClient)

	verifier, err := helpers.NewFirebaseVerifier(cfg.FirebaseProjectID)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(repo, repo)
	listingService := services.NewListingService(repo)
	bookingService := services.NewBookingService(repo, repo)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		MongoDBClient:  mongoDBClient,
		MongoRepo:      repo,
		Verifier:       verifier,
		UserService:    userService,
		ListingService: listingService,
		BookingService: bookingService,
	}, nil
}

// Close releases background resources held by the container, such as the
// verifier's JWKS refresh goroutine. The Mongo client is closed separately.
func (c *Container) Close() {
	if closer, ok := c.Verifier.(interface{ Close() }); ok {
		closer.Close()
	}
}
