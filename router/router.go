package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	authCtrl "farmhub/pkg/auth/controller"
	cropCtrl "farmhub/pkg/crop/controller"
	healthCtrl "farmhub/pkg/crophealth/controller"
	diseaseCtrl "farmhub/pkg/disease/controller"
	fieldCtrl "farmhub/pkg/field/controller"
	financialCtrl "farmhub/pkg/financial/controller"
	"farmhub/pkg/logging"
	"farmhub/pkg/metrics"
	"farmhub/pkg/middleware"
	resourceCtrl "farmhub/pkg/resource/controller"
	timelineCtrl "farmhub/pkg/timeline/controller"
	"farmhub/pkg/validation"
	weedCtrl "farmhub/pkg/weed/controller"
	workerCtrl "farmhub/pkg/worker/controller"
)

type Controllers struct {
	Auth       authCtrl.AuthController
	Health     interface{ Health(echo.Context) error }
	Fields     fieldCtrl.FieldController
	Crops      cropCtrl.CropController
	Workers    workerCtrl.WorkerController
	Timeline   timelineCtrl.TimelineController
	Resources  resourceCtrl.ResourceController
	Financial  financialCtrl.FinancialController
	CropHealth healthCtrl.CropHealthController
	Diseases   diseaseCtrl.DiseaseController
	Weeds      weedCtrl.WeedController
}

type Options struct {
	JWTSecret   string
	DevAuth     bool
	CORSOrigins []string
	BodyLimit   string
	Log         *zap.Logger
}

type crud interface {
	List(echo.Context) error
	Create(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

func mountCRUD(g *echo.Group, h crud) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// New installs the middleware chain and every route on e.
func New(e *echo.Echo, opts Options, h Controllers) *echo.Echo {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = "12M"
	}
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(logging.RequestLogger(opts.Log))
	e.Use(echoMiddleware.BodyLimit(opts.BodyLimit))
	cors := echoMiddleware.DefaultCORSConfig
	if len(opts.CORSOrigins) > 0 {
		cors.AllowOrigins = opts.CORSOrigins
	}
	e.Use(echoMiddleware.CORSWithConfig(cors))

	e.GET("/health", h.Health.Health)
	e.GET("/metrics", metrics.Handler())

	e.POST("/api/auth/token", h.Auth.Token)
	api := e.Group("/api", middleware.Auth(opts.JWTSecret, opts.DevAuth))
	api.GET("/auth/whoami", h.Auth.WhoAmI)

	mountCRUD(api.Group("/fields"), h.Fields)
	crops := api.Group("/crops")
	mountCRUD(crops, h.Crops)
	crops.POST("/:id/timeline/generate", h.Timeline.Generate)
	mountCRUD(api.Group("/workers"), h.Workers)

	tl := api.Group("/timeline")
	tl.GET("/upcoming", h.Timeline.Upcoming)
	tl.POST("/:id/complete", h.Timeline.Complete)
	mountCRUD(tl, h.Timeline)

	res := api.Group("/resources")
	res.GET("/alerts", h.Resources.Alerts)
	res.GET("/export/csv", h.Resources.ExportCSV)
	res.GET("/export/xlsx", h.Resources.ExportXLSX)
	res.POST("/:id/use", h.Resources.Use)
	res.POST("/:id/stock", h.Resources.AddStock)
	res.POST("/:id/alerts/:alertId/acknowledge", h.Resources.AcknowledgeAlert)
	mountCRUD(res, h.Resources)

	fin := api.Group("/financial")
	fin.GET("/summary", h.Financial.Summary)
	fin.GET("/export/csv", h.Financial.ExportCSV)
	fin.GET("/export/xlsx", h.Financial.ExportXLSX)
	fin.GET("/budgets", h.Financial.ListBudgets)
	fin.POST("/budgets", h.Financial.CreateBudget)
	fin.GET("/budgets/:id", h.Financial.GetBudget)
	fin.PUT("/budgets/:id", h.Financial.UpdateBudget)
	fin.DELETE("/budgets/:id", h.Financial.DeleteBudget)
	fin.POST("/budgets/:id/recalculate", h.Financial.RecalculateBudget)
	fin.POST("/budgets/:id/sync", h.Financial.SyncBudget)
	fin.POST("/budgets/:id/alerts/:alertId/acknowledge", h.Financial.AcknowledgeBudgetAlert)
	fin.GET("", h.Financial.ListTransactions)
	fin.POST("", h.Financial.CreateTransaction)
	fin.GET("/:id", h.Financial.GetTransaction)
	fin.PUT("/:id", h.Financial.UpdateTransaction)
	fin.DELETE("/:id", h.Financial.DeleteTransaction)

	ch := api.Group("/crop-health")
	ch.POST("/checkin", h.CropHealth.CheckIn)
	ch.GET("/stats", h.CropHealth.Stats)
	ch.GET("/weather-alerts", h.CropHealth.WeatherAlerts)
	ch.POST("/:id/issues", h.CropHealth.AddIssue)
	ch.PUT("/:id/issues/:issueId/status", h.CropHealth.UpdateIssueStatus)
	ch.POST("/:id/issues/:issueId/treatments", h.CropHealth.AddTreatment)
	ch.POST("/:id/issues/:issueId/resolve", h.CropHealth.ResolveIssue)
	ch.POST("/:id/images", h.CropHealth.UploadImage)
	mountCRUD(ch, h.CropHealth)

	dis := api.Group("/diseases")
	dis.GET("/match", h.Diseases.Match)
	dis.POST("/import/url", h.Diseases.ImportURL)
	mountCRUD(dis, h.Diseases)

	wd := api.Group("/weeds")
	wd.GET("/issues", h.Weeds.ListIssues)
	wd.POST("/issues", h.Weeds.CreateIssue)
	wd.GET("/issues/stats", h.Weeds.Stats)
	wd.GET("/issues/:id", h.Weeds.GetIssue)
	wd.PUT("/issues/:id", h.Weeds.UpdateIssue)
	wd.DELETE("/issues/:id", h.Weeds.DeleteIssue)
	wd.POST("/issues/:id", h.Weeds.UpdateStatus)
	wd.POST("/issues/:id/control-method", h.Weeds.AssignControlMethod)
	wd.POST("/issues/:id/applications", h.Weeds.AddApplication)
	wd.POST("/issues/:id/monitoring", h.Weeds.AddMonitoring)
	wd.POST("/issues/:id/resolve", h.Weeds.Resolve)
	wd.GET("", h.Weeds.ListWeeds)
	wd.POST("", h.Weeds.CreateWeed)
	wd.GET("/:id", h.Weeds.GetWeed)
	wd.PUT("/:id", h.Weeds.UpdateWeed)
	wd.DELETE("/:id", h.Weeds.DeleteWeed)
	return e
}
