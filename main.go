package main

import (
	"context"

	"github.com/pitabwire/util"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/install"
	"github.com/gnuboard/goboard/scheduler"
	"github.com/gnuboard/goboard/service"
	"github.com/gnuboard/goboard/service/handlers"
	"github.com/gnuboard/goboard/service/repository"
	"github.com/gnuboard/goboard/utils"
)

func main() {
	ctx := context.Background()

	settings, err := config.Load()
	if err != nil {
		util.Log(ctx).WithError(err).Fatal("could not process configs")
		return
	}
	log := util.Log(ctx)

	// An unreachable or unconfigured database is not fatal: the process
	// still serves the installer.
	var db *gorm.DB
	if settings.DBEngine != "" {
		db, err = database.Connect(settings)
		if err != nil {
			log.WithError(err).Warn("could not open database, serving installer only")
			db = nil
		}
	}

	if db != nil {
		if err = install.EnsureDataDirectory(); err != nil {
			log.WithError(err).Warn("could not prepare data directory")
		}
	}

	boardServer := handlers.NewBoardServer(settings, db)
	router := boardServer.SetupRouter()

	var sched *scheduler.Scheduler
	startScheduler := func(db *gorm.DB) {
		if sched != nil {
			return
		}
		sched = scheduler.New(repository.NewVisitRepository(db))
		if err := sched.Start(ctx); err != nil {
			log.WithError(err).Error("could not start scheduler")
		}
	}

	installer := install.NewInstaller(utils.NewBCrypt())
	installer.OnInstalled = func(db *gorm.DB, _ *config.Settings) {
		// Leave the uninstalled state without a restart.
		boardServer.AttachDB(db)
		startScheduler(db)
	}
	installHandler := install.NewHandler(boardServer.Sessions(), installer)

	if db != nil {
		startScheduler(db)
	}
	defer func() {
		if sched != nil {
			sched.Stop()
		}
	}()

	handler := service.ComposeHandler(settings, router, installHandler.Router())
	service.RunServer(ctx, settings, handler)
}
