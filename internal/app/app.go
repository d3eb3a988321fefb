// Package app wires repositories, services and controllers into an Echo server.
package app

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmhub/config"
	"farmhub/pkg/ai"
	authCtrlImp "farmhub/pkg/auth/controllerImp"
	"farmhub/pkg/blob"
	cropCtrlImp "farmhub/pkg/crop/controllerImp"
	cropRepoImp "farmhub/pkg/crop/repositoryImp"
	cropSvcImp "farmhub/pkg/crop/serviceImp"
	chCtrlImp "farmhub/pkg/crophealth/controllerImp"
	chRepoImp "farmhub/pkg/crophealth/repositoryImp"
	chSvcImp "farmhub/pkg/crophealth/serviceImp"
	diseaseCtrlImp "farmhub/pkg/disease/controllerImp"
	diseaseRepoImp "farmhub/pkg/disease/repositoryImp"
	diseaseSvcImp "farmhub/pkg/disease/serviceImp"
	fieldCtrlImp "farmhub/pkg/field/controllerImp"
	fieldRepoImp "farmhub/pkg/field/repositoryImp"
	fieldSvcImp "farmhub/pkg/field/serviceImp"
	finCtrlImp "farmhub/pkg/financial/controllerImp"
	finRepoImp "farmhub/pkg/financial/repositoryImp"
	finSvcImp "farmhub/pkg/financial/serviceImp"
	healthCtrlImp "farmhub/pkg/health/controllerImp"
	"farmhub/pkg/planner"
	resCtrlImp "farmhub/pkg/resource/controllerImp"
	resRepoImp "farmhub/pkg/resource/repositoryImp"
	resSvcImp "farmhub/pkg/resource/serviceImp"
	tlCtrlImp "farmhub/pkg/timeline/controllerImp"
	tlRepoImp "farmhub/pkg/timeline/repositoryImp"
	tlSvcImp "farmhub/pkg/timeline/serviceImp"
	"farmhub/pkg/weather"
	weedCtrlImp "farmhub/pkg/weed/controllerImp"
	weedRepoImp "farmhub/pkg/weed/repositoryImp"
	weedSvcImp "farmhub/pkg/weed/serviceImp"
	workerCtrlImp "farmhub/pkg/worker/controllerImp"
	workerRepoImp "farmhub/pkg/worker/repositoryImp"
	workerSvcImp "farmhub/pkg/worker/serviceImp"
	"farmhub/router"
)

// Collaborators are the outside services. Nil fields are built from cfg.
type Collaborators struct {
	Blobs      blob.Store
	Weather    weather.Client
	Classifier ai.Client
	Planner    planner.RulesEngine
}

// App holds the services the CLI needs beyond HTTP.
type App struct {
	Echo     *echo.Echo
	Diseases *diseaseSvcImp.Svc
	Weeds    *weedSvcImp.Svc
}

// Resolve fills missing collaborators: stubs unless endpoints are configured.
func Resolve(ctx context.Context, cfg config.AppConfig, c Collaborators, log *zap.Logger) (Collaborators, error) {
	if c.Blobs == nil {
		store, err := blob.Open(ctx, blob.Config{
			Driver:      cfg.BlobDriver,
			FSRoot:      cfg.BlobFSRoot,
			S3Bucket:    cfg.S3Bucket,
			S3Region:    cfg.S3Region,
			S3Endpoint:  cfg.S3Endpoint,
			S3PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return c, fmt.Errorf("blob store: %w", err)
		}
		c.Blobs = store
	}
	if c.Weather == nil {
		if cfg.WeatherEndpoint != "" {
			c.Weather = weather.NewHTTP(cfg.WeatherEndpoint, cfg.WeatherAPIKey)
		} else {
			c.Weather = weather.NewStub()
		}
	}
	if c.Classifier == nil {
		if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
			c.Classifier = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
		} else {
			c.Classifier = ai.NewMock()
		}
	}
	if c.Planner == nil {
		c.Planner = planner.Default()
		if cfg.StageCSV != "" {
			rules, err := planner.LoadFromFiles(cfg.StageCSV, cfg.CropAdjCSV, cfg.OverridesXLSX)
			if err != nil {
				log.Warn("stage config unusable, using built-in plan", zap.Error(err))
			} else {
				c.Planner = rules
			}
		}
	}
	return c, nil
}

// New builds the full application over db.
func New(ctx context.Context, cfg config.AppConfig, db *gorm.DB, c Collaborators, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c, err := Resolve(ctx, cfg, c, log)
	if err != nil {
		return nil, err
	}

	fields := fieldRepoImp.New(db)
	crops := cropRepoImp.New(db)
	resources := resSvcImp.New(resRepoImp.New(db), log.Named("resource"))
	diseases := diseaseSvcImp.New(diseaseRepoImp.New(db), cfg.ImportHosts)
	weeds := weedSvcImp.New(weedRepoImp.NewWeeds(db), weedRepoImp.NewIssues(db), log.Named("weed"))
	health := chSvcImp.New(chSvcImp.Deps{
		Repo:       chRepoImp.New(db),
		Crops:      crops,
		Diseases:   diseases,
		Weather:    c.Weather,
		Classifier: c.Classifier,
		Blobs:      c.Blobs,
		Log:        log.Named("crop_health"),
	})
	timeline := tlSvcImp.New(tlSvcImp.Deps{
		Repo:    tlRepoImp.New(db),
		Crops:   crops,
		Fields:  fields,
		Stock:   resources,
		Planner: c.Planner,
		Log:     log.Named("timeline"),
	})
	financial := finSvcImp.New(finRepoImp.NewTransactions(db), finRepoImp.NewBudgets(db), log.Named("financial"))

	e := router.New(echo.New(), router.Options{
		JWTSecret:   cfg.JWTSecret,
		DevAuth:     cfg.DevAuth,
		CORSOrigins: cfg.CORSOrigins,
		BodyLimit:   cfg.BodyLimit,
		Log:         log,
	}, router.Controllers{
		Auth:       authCtrlImp.NewAuthController(cfg.JWTSecret, cfg.DevAuth),
		Health:     healthCtrlImp.NewHealthCtrl(db, c.Blobs),
		Fields:     fieldCtrlImp.New(fieldSvcImp.NewFieldService(fields)),
		Crops:      cropCtrlImp.New(cropSvcImp.NewCropService(crops, fields)),
		Workers:    workerCtrlImp.New(workerSvcImp.NewWorkerService(workerRepoImp.New(db))),
		Timeline:   tlCtrlImp.New(timeline),
		Resources:  resCtrlImp.New(resources),
		Financial:  finCtrlImp.New(financial),
		CropHealth: chCtrlImp.New(health),
		Diseases:   diseaseCtrlImp.New(diseases),
		Weeds:      weedCtrlImp.New(weeds),
	})
	return &App{Echo: e, Diseases: diseases, Weeds: weeds}, nil
}
