// Command shell serves the interactive forecasting page.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/indexcast/internal/config"
	"github.com/sartorproj/indexcast/internal/history"
	"github.com/sartorproj/indexcast/internal/shell"
	"github.com/sartorproj/indexcast/internal/version"
	"github.com/sartorproj/indexcast/timeseries"
)

func main() {
	cfgPath := flag.String("config", "configs/indexcast.yaml", "path to the YAML configuration")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	log := logrus.StandardLogger()
	cfg, err := config.LoadAndValidate(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Log.Configure(log); err != nil {
		log.WithError(err).Fatal("configure logging")
	}
	gin.SetMode(gin.ReleaseMode)

	rec, err := history.Open(cfg.History.SQLitePath, log)
	if err != nil {
		log.WithError(err).Warn("init history recorder failed, using noop")
		rec = history.NewNoopRecorder()
	}
	defer rec.Close()

	opts := timeseries.DefaultCSVOptions()
	opts.DateFormat = cfg.Data.DateFormat
	load := func() (*timeseries.PriceTable, error) {
		log.WithField("path", cfg.Data.Path).Info("loading prices")
		return timeseries.LoadPrices(cfg.Data.Path, opts)
	}

	session := shell.NewSession(load, cfg.Model.Selector(), rec, log)
	server := shell.NewServer(session, shell.Options{
		DefaultIndex:   cfg.Model.DefaultIndex,
		DefaultHorizon: cfg.Forecast.DefaultHorizon,
		MaxHorizon:     cfg.Forecast.MaxHorizon,
		HistoryPoints:  cfg.Forecast.HistoryPoints,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{"addr": cfg.Server.Addr, "version": version.String()}).Info("indexcast shell listening")
	if err := server.Start(ctx, cfg.Server.Addr); err != nil {
		log.WithError(err).Error("serve")
		rec.Close()
		os.Exit(1)
	}
	log.Info("indexcast shell stopped")
}
