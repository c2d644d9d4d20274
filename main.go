package main

import (
	"context"

	"github.com/adonese/bankd/store"
	"github.com/adonese/bankd/teller"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var logrusLogger = logrus.New()

func getMainEngine(service *teller.Service) *gin.Engine {
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(teller.RequestID())
	route.Use(teller.RequestLogger(logrusLogger))
	route.HandleMethodNotAllowed = true

	route.GET("/accounts", service.GetAccounts)
	route.GET("/account", service.GetAccountByNumber)
	route.GET("/profit_accounts", service.GetProfitAccounts)
	route.GET("/clients", service.GetClients)
	route.GET("/associations", service.GetAssociations)
	route.GET("/vip_profit", service.GetVIPProfit)

	route.POST("/accounts", service.PostAccount)
	route.POST("/register_client", service.PostRegisterClient)
	route.POST("/update_rank", service.PostUpdateRank)
	route.POST("/remove_client", service.PostRemoveClient)

	route.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return route
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrusLogger.Fatalf("error in parsing config: %v", err)
	}
	configureLogger(cfg)
	teller.RegisterValidations()

	db, err := store.OpenFromConfig(cfg.DBURL, cfg.SQLitePath, cfg.DBDriver)
	if err != nil {
		logrusLogger.Fatalf("error in connecting to database: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(context.Background(), db); err != nil {
		logrusLogger.Fatalf("error in migrations: %v", err)
	}

	service := &teller.Service{
		Store:  store.New(db, logrusLogger),
		Logger: logrusLogger,
	}

	if !cfg.IsDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	logrusLogger.WithFields(logrus.Fields{"port": cfg.Port, "driver": db.Driver}).Info("bankd is up")
	if err := getMainEngine(service).Run(cfg.Port); err != nil {
		logrusLogger.Fatalf("server stopped: %v", err)
	}
}
