// Command train selects and fits a forecasting model for one index and saves
// it to disk. With schedule.retrain_cron set it keeps running and retrains on
// that schedule until interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/indexcast/internal/config"
	"github.com/sartorproj/indexcast/internal/history"
	"github.com/sartorproj/indexcast/internal/version"
)

func main() {
	cfgPath := flag.String("config", "configs/indexcast.yaml", "path to the YAML configuration")
	index := flag.String("index", "", "index to train on (default: model.default_index)")
	days := flag.Int("days", 0, "business days to forecast after training (default: forecast.default_horizon)")
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
	log.WithField("version", version.String()).Info("indexcast train starting")

	rec, err := history.Open(cfg.History.SQLitePath, log)
	if err != nil {
		log.WithError(err).Warn("init history recorder failed, using noop")
		rec = history.NewNoopRecorder()
	}
	defer rec.Close()

	t := &trainer{
		cfg:      cfg,
		index:    cfg.Model.DefaultIndex,
		horizon:  cfg.Forecast.DefaultHorizon,
		recorder: rec,
		log:      log,
		out:      os.Stdout,
		progress: os.Stderr,
	}
	if *index != "" {
		t.index = *index
	}
	if *days != 0 {
		t.horizon = *days
	}

	if cfg.Schedule.RetrainCron == "" {
		if _, err := t.run(); err != nil {
			log.WithError(err).Error("training failed")
			rec.Close()
			os.Exit(1)
		}
		return
	}

	// Scheduled runs log failures and wait for the next tick.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Schedule.RetrainCron, func() {
		if _, err := t.run(); err != nil {
			log.WithError(err).Error("scheduled training failed")
		}
	}); err != nil {
		log.WithError(err).Fatal("register retrain task")
	}
	c.Start()
	log.WithField("cron", cfg.Schedule.RetrainCron).Info("retrain scheduler started")

	if _, err := t.run(); err != nil {
		log.WithError(err).Error("initial training failed")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	<-c.Stop().Done()
	log.Info("indexcast train stopped")
}
