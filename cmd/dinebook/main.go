package main

import (
	accounthandler "dinebook/internal/accounts/handler"
	accountrepository "dinebook/internal/accounts/repository"
	accountservice "dinebook/internal/accounts/service"
	accountvalidator "dinebook/internal/accounts/validator"
	bookinghandler "dinebook/internal/bookings/handler"
	bookingrepository "dinebook/internal/bookings/repository"
	bookingservice "dinebook/internal/bookings/service"
	placehandler "dinebook/internal/places/handler"
	placerepository "dinebook/internal/places/repository"
	placeservice "dinebook/internal/places/service"
	placevalidator "dinebook/internal/places/validator"
	"dinebook/pkg/app"
	"dinebook/pkg/auth"
	"dinebook/pkg/config"
	"dinebook/pkg/kafka"
	kafka_config "dinebook/pkg/kafka/config"
)

const ServiceName = "dinebook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting dinebook service")

	sealer, err := auth.NewSealer(cfg.TokenKey, cfg.TokenTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize token sealer", "error", err)
	}
	guard := auth.NewGuard(sealer, cfg.AdminAPIKey, cfg.Log)

	placeProducer, bookingProducer := initProducers(cfg)

	accountService := initAccounts(cfg, sealer)
	placeService := initPlaces(cfg, placeProducer)
	bookingService := initBookings(cfg, bookingProducer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		accounthandler.NewAccountHandler(accountService, guard, cfg.Log),
		placehandler.NewPlaceHandler(placeService, guard, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, guard, cfg.Log),
	)
	serverApp.Run()

	if placeProducer != nil {
		if err := placeProducer.Close(); err != nil {
			cfg.Log.Error("Failed to close place events producer", "error", err)
		}
	}
	if bookingProducer != nil {
		if err := bookingProducer.Close(); err != nil {
			cfg.Log.Error("Failed to close booking events producer", "error", err)
		}
	}
}

// initProducers builds the event producers, or returns nils when no brokers
// are configured; the services treat a nil producer as publishing disabled.
func initProducers(cfg *config.Config) (place, booking *kafka.Producer) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, event publishing disabled")
		return nil, nil
	}

	kcfg := kafka_config.Load(cfg.KafkaBrokers)

	place, err := kafka.NewProducer(kcfg, cfg.PlaceEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create place events producer", "error", err)
	}
	booking, err = kafka.NewProducer(kcfg, cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking events producer", "error", err)
	}

	cfg.Log.Info("Kafka producers initialized", "brokers", cfg.KafkaBrokers)
	return place, booking
}

func initAccounts(cfg *config.Config, sealer *auth.Sealer) accountservice.AccountService {
	userValidator := accountvalidator.NewUserValidator(cfg.Log)
	userRepo := accountrepository.NewMongoUserRepository(cfg)
	svc := accountservice.NewAccountService(userRepo, userValidator, sealer, cfg)

	cfg.Log.Info("Account service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initPlaces(cfg *config.Config, producer *kafka.Producer) placeservice.PlaceService {
	placeValidator := placevalidator.NewPlaceValidator(cfg.Log)
	placeRepo := placerepository.NewMongoPlaceRepository(cfg)
	svc := placeservice.NewPlaceService(placeRepo, placeValidator, producer, cfg)

	cfg.Log.Info("Place service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initBookings(cfg *config.Config, producer *kafka.Producer) bookingservice.BookingService {
	ledgerRepo := bookingrepository.NewMongoSlotLedgerRepository(cfg)
	lockRepo := bookingrepository.NewMongoSlotLockRepository(cfg)
	svc := bookingservice.NewBookingService(ledgerRepo, lockRepo, producer, cfg)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return svc
}
