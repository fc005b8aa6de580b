package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hongjunna/toporider/internal/auth"
	"github.com/hongjunna/toporider/internal/config"
	"github.com/hongjunna/toporider/internal/course"
	"github.com/hongjunna/toporider/internal/elevation"
	"github.com/hongjunna/toporider/internal/export"
	"github.com/hongjunna/toporider/internal/graphhopper"
	"github.com/hongjunna/toporider/internal/route"
	"github.com/hongjunna/toporider/internal/stream"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Route  *route.Service
}

// NewServer wires the API. db and redisClient may be nil: without a database
// the course routes answer 503, without redis course events stay in-process.
func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Route:  newRouteService(cfg),
	}

	registerRoutes(s)
	return s
}

// Close releases the event relay. The caller owns DB and Redis.
func (s *Server) Close() {
	s.Stream.Close()
}

func newRouteService(cfg config.Config) *route.Service {
	gh := graphhopper.NewClient(cfg.GraphHopperURL, cfg.SampleProfile)
	sampler := elevation.NewSampler(gh, cfg.SampleTimeout, cfg.SampleConcurrency)
	return route.NewService(
		route.NewStraight(sampler, cfg.StraightSmoothWindow, cfg.StraightSmoothIterations),
		route.NewDelegated(gh, cfg.RouteTimeout, cfg.RouteSmoothWindow, cfg.RouteSmoothIterations, cfg.DefaultProfile),
	)
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authSvc := auth.NewService(s.Cfg.JWTSecret)
	jwtMiddleware := auth.JWTMiddleware(authSvc)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	route.RegisterRoutes(s.App.Group("/route"), s.Route)
	export.RegisterRoutes(s.App.Group("/export"), export.NewService())
	if s.DB != nil {
		course.RegisterRoutes(s.App.Group("/courses"), course.NewService(s.DB, s.Stream), jwtMiddleware)
	} else {
		s.App.Use("/courses", course.Unavailable)
	}
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
