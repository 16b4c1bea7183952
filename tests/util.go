package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/trezcool/studio/apps/api/echo"
	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
	"github.com/trezcool/studio/core/xblock"
	"github.com/trezcool/studio/services/logger"
	"github.com/trezcool/studio/storage/database/inmem"
)

// App is an API server over a fresh in-memory database.
type App struct {
	Server         *echoapi.Server
	Logger         core.Logger
	GroupConfigSvc *groupconfig.Service
	XBlockSvc      *xblock.Service
}

func Config() *core.Config {
	return &core.Config{
		Env:      "TEST",
		AppName:  "Studio",
		TestMode: true,
		Server: core.ServerConfig{
			Addr:            "localhost:0",
			ShutdownTimeout: 5 * time.Second,
			DisableReqLogs:  true,
		},
		Database: core.DatabaseConfig{Engine: "inmem"},
	}
}

func NewApp() *App {
	conf := Config()
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	validate, translator := core.NewValidator()

	db := inmemdb.Open()
	app := &App{
		Logger:         logger,
		GroupConfigSvc: groupconfig.NewService(inmemdb.NewGroupConfigRepository(db), validate),
		XBlockSvc:      xblock.NewService(inmemdb.NewBlockStore(db), validate),
	}
	app.Server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		GroupConfigSvc: app.GroupConfigSvc,
		XBlockSvc:      app.XBlockSvc,
		Translator:     translator,
	})
	return app
}

func CreateConfiguration(t *testing.T, svc *groupconfig.Service, courseKey, name string, groups ...string) groupconfig.Configuration {
	cfg := groupconfig.NewConfiguration(name, "")
	for _, g := range groups {
		cfg.AddGroup(g)
	}
	created, err := svc.Create(context.Background(), courseKey, *cfg)
	if err != nil {
		t.Fatalf("CreateConfiguration() failed: %v", err)
	}
	return created
}

func CreateBlock(t *testing.T, svc *xblock.Service, parent, category, name string, start ...time.Time) xblock.Info {
	req := xblock.CreateRequest{ParentLocator: parent, Category: category, DisplayName: name}
	if len(start) > 0 {
		req.Start = &start[0]
	}
	info, err := svc.Create(context.Background(), req, "author")
	if err != nil {
		t.Fatalf("CreateBlock() failed: %v", err)
	}
	return info
}
