package container

import (
	"log/slog"

	"github.com/care-xyz/api/internal/config"
	"github.com/care-xyz/api/internal/helpers"
	"github.com/care-xyz/api/internal/mailer"
	"github.com/care-xyz/api/internal/models"
	"github.com/care-xyz/api/internal/services"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Cloudinary     *cloudinary.Cloudinary
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Verifier       helpers.TokenVerifier
	UserService    *services.UserService
	CatalogService *services.CatalogService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	// Initialize repositories
	identity := models.SupabaseNewRepo(supabaseClient)
	store := models.MongodbNewRepo(mongoDBClient)

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	verifier := helpers.NewJWKSVerifier(cfg.SupabaseURL)

	userService := services.NewUserService(store, identity, logger)
	catalogService := services.NewCatalogService(store, cld)
	bookingService := services.NewBookingService(store, store, store, mail, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Cloudinary:     cld,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		Verifier:       verifier,
		UserService:    userService,
		CatalogService: catalogService,
		BookingService: bookingService,
	}
}
