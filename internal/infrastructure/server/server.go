package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/api/http"
	"github.com/mrtimely/backend/internal/api/middleware"
	"github.com/mrtimely/backend/internal/api/ws"
	"github.com/mrtimely/backend/internal/domain/guard"
	"github.com/mrtimely/backend/internal/domain/progress"
	"github.com/mrtimely/backend/internal/domain/recovery"
	"github.com/mrtimely/backend/internal/domain/session"
	"github.com/mrtimely/backend/internal/infrastructure/config"
	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
	"github.com/mrtimely/backend/internal/infrastructure/tracing"
	"github.com/mrtimely/backend/internal/shared/types"
	"github.com/mrtimely/backend/internal/storage"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	sessions  *session.Store
	snapshots *recovery.Manager
	poller    *progress.Poller
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing Mr. Timely backend",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_dir", cfg.Session.StorageDir),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Initialize tracing
	tracer := tracing.New("backend", logger)

	// Pick the best available storage tier
	kv := storage.New(cfg.Session.StorageDir, cfg.Session.Compress)
	logger.Info("Session storage initialized", zap.String("kind", kv.Kind()))

	// Session core
	sessions := session.NewStore(kv,
		session.WithLogger(logger),
		session.WithMetrics(metrics),
	)
	snapshots := recovery.NewManager(kv,
		recovery.WithLogger(logger),
		recovery.WithMetrics(metrics),
		recovery.WithSaveInterval(cfg.Session.SaveInterval),
		recovery.WithAutoSaveOnChange(cfg.Session.AutoSaveOnChange),
	)
	checker := recovery.NewChecker(snapshots,
		recovery.WithMaxAge(cfg.Session.MaxRecoveryAge),
	)
	guarded := guard.New(checker, snapshots,
		guard.WithConfirmer(http.NewRequestConfirmer()),
		guard.WithLogger(logger),
		guard.WithMetrics(metrics),
	)

	// Progress poller feeds the WebSocket stream. The handler is created
	// right after the poller; updates only flow once Run starts it.
	var wsHandler *ws.Handler
	poller := progress.NewPoller(sessions.State,
		progress.WithInterval(cfg.Session.PollInterval),
		progress.WithOnUpdate(func(p types.Progress) {
			if wsHandler != nil {
				wsHandler.Broadcast(p)
			}
		}),
	)
	wsHandler = ws.NewHandler(sessions, poller, metrics, logger)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := http.NewHandlers(sessions, snapshots, checker, guarded, poller, metrics, logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session state and operations
	router.GET("/session", handlers.GetState)
	router.POST("/session/start", handlers.StartSession)
	router.POST("/session/reset", handlers.ResetSession)
	router.POST("/session/activity", handlers.SetActivity)
	router.POST("/session/activity/complete", handlers.CompleteActivity)
	router.POST("/session/break/start", handlers.StartBreak)
	router.POST("/session/break/end", handlers.EndBreak)
	router.POST("/session/drawer", handlers.SetDrawer)
	router.POST("/session/page", handlers.SetPage)
	router.POST("/session/add-minute", handlers.AddMinute)
	router.GET("/session/progress", handlers.GetProgress)
	router.POST("/session/summary", handlers.GetSummary)

	// Recovery snapshot protocol
	router.GET("/recovery", handlers.CheckRecovery)
	router.GET("/recovery/snapshot", handlers.GetSnapshot)
	router.POST("/recovery/snapshot", handlers.SaveSnapshot)
	router.POST("/recovery/notify", handlers.NotifySnapshot)
	router.DELETE("/recovery/snapshot", handlers.ClearSnapshot)

	// Guarded destructive operations
	router.POST("/guard/execute", handlers.GuardExecute)

	// Client log ingestion
	router.POST("/logs/stream", handlers.StreamLogs)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/json", handlers.Stats)

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		sessions:  sessions,
		snapshots: snapshots,
		poller:    poller,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Run starts the background loops and the HTTP server
func (s *Server) Run() error {
	s.poller.Start()
	s.snapshots.StartAutoSave(s.shapeSource())

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the background loops
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.snapshots.StopAutoSave()
	s.poller.Stop()

	// Sync logger before exit
	s.logger.Sync()

	return nil
}

// shapeSource derives the recovery shape from the live session state.
// Clients overlay richer shapes (timeline, activity lists) through the
// snapshot endpoints.
func (s *Server) shapeSource() recovery.Source {
	return func() types.SessionShape {
		state := s.sessions.State()

		// Activities must carry every activity the snapshot references,
		// including the one in flight, so restore can resolve names.
		activities := make([]types.Activity, 0, len(state.CompletedActivities)+1)
		completedIDs := make([]string, 0, len(state.CompletedActivities))
		for _, a := range state.CompletedActivities {
			activities = append(activities, a)
			completedIDs = append(completedIDs, a.ID)
		}
		if state.CurrentActivity != nil {
			activities = append(activities, *state.CurrentActivity)
		}

		return types.SessionShape{
			TimeSet:              state.HasSession(),
			TotalDuration:        state.TotalDuration,
			ElapsedTime:          s.poller.Current().Elapsed,
			TimerActive:          state.IsTimerRunning,
			CurrentActivity:      state.CurrentActivity,
			Activities:           activities,
			CompletedActivityIDs: completedIDs,
		}
	}
}
