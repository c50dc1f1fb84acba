package main // Entry point package

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/config"
	"github.com/chayapol-b/jobfair-booking/internal/database"
	"github.com/chayapol-b/jobfair-booking/internal/handler"
	"github.com/chayapol-b/jobfair-booking/internal/middleware"
	"github.com/chayapol-b/jobfair-booking/internal/model"
	"github.com/chayapol-b/jobfair-booking/internal/queue"
	"github.com/chayapol-b/jobfair-booking/internal/repository"
	"github.com/chayapol-b/jobfair-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	jobfairs := repository.NewJobfairRepo(db)
	appointments := repository.NewBookingRepo(db, repository.AppointmentKind)
	reservations := repository.NewBookingRepo(db, repository.ReservationKind)

	// Parent resolvers translate each repository's not-found sentinel into
	// the one the admission engine knows about.
	companyResolver := booking.ParentResolverFunc(func(ctx context.Context, id uint64) (*model.ParentSummary, error) {
		c, err := companies.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCompanyNotFound) {
				return nil, booking.ErrParentNotFound
			}
			return nil, err
		}
		return &model.ParentSummary{
			ID: c.ID, Name: c.Name, Address: c.Address,
			Tel: c.Tel, Website: c.Website, Description: c.Description,
		}, nil
	})
	jobfairResolver := booking.ParentResolverFunc(func(ctx context.Context, id uint64) (*model.ParentSummary, error) {
		j, err := jobfairs.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrJobfairNotFound) {
				return nil, booking.ErrParentNotFound
			}
			return nil, err
		}
		return &model.ParentSummary{
			ID: j.ID, Name: j.Name, Address: j.Address, Tel: j.Tel,
		}, nil
	})

	window := booking.Window{Start: cfg.BookingWindowStart, End: cfg.BookingWindowEnd}
	apptEngine := booking.NewEngine("appointment", companyResolver, booking.NewSQLStore(appointments), window, cfg.MaxBookingsPerUser)
	resvEngine := booking.NewEngine("reservation", jobfairResolver, booking.NewSQLStore(reservations), window, cfg.MaxBookingsPerUser)

	companyCascade := booking.NewCascade("appointment", companies)
	jobfairCascade := booking.NewCascade("reservation", jobfairs)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	companyHandler := handler.NewCompanyHandler(companies, companyCascade)
	jobfairHandler := handler.NewJobfairHandler(jobfairs, jobfairCascade)
	apptHandler := handler.NewBookingHandler(appointments, apptEngine, companyResolver, "appointment", "company", "companyId")
	resvHandler := handler.NewBookingHandler(reservations, resvEngine, jobfairResolver, "reservation", "jobfair", "jobfairId")

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(middleware.RequestID())

	// Redis backs the rate limiter and the public response cache.  When it
	// is unreachable both degrade to pass-through so the API stays up.
	rdb := config.NewRedisClient()
	if rl := config.LoadRateLimitConfig(); rl.Enabled && rdb != nil {
		e.Use(middleware.NewTokenBucket(rl, rdb))
	}
	var cache echo.MiddlewareFunc
	if cc := config.LoadCacheConfig(); cc.Enabled && rdb != nil {
		cache = middleware.NewRedisCache(cc, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, companyHandler, jobfairHandler, cfg.JWTSecret, cache)
	router.RegisterBookings(e, apptHandler, resvHandler, cfg.JWTSecret)

	// Consume booking.created events in the background; the consumer has
	// its own reconnect loop so a missing broker never blocks startup.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
