package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marktime.com/marktime/core"
	"marktime.com/marktime/infrastructure/communication"
	"marktime.com/marktime/infrastructure/devops"
	"marktime.com/marktime/infrastructure/filesystem"
	"marktime.com/marktime/report"
	"marktime.com/marktime/scheduler"
	"marktime.com/marktime/web/handlers/attendance"
	"marktime.com/marktime/web/middlewares"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	clock, err := core.NewZoneClock(cfg.Timezone)
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.SigningSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	notifier, err := communication.NewNotifier(communication.Settings{
		SlackToken: cfg.Slack.Token,
		Slack: communication.SlackOption{
			HRChannelID:    cfg.Slack.HRChannelID,
			ErrorChannelID: cfg.Slack.ErrorChannelID,
		},
		EmailFrom: cfg.Email.From,
		EmailTo:   cfg.Email.To,
	})
	if err != nil {
		log.Fatal(err)
	}
	publisher := &report.Publisher{
		DM:            dm,
		Clock:         clock,
		Bucket:        cfg.Report.Bucket,
		PublicBaseURL: cfg.Report.PublicBaseURL,
		Notifier:      notifier,
	}

	sched, err := scheduler.New(clock.Loc, cfg.MorningNotifyAt, cfg.EveningReportAt, scheduler.Jobs{
		MorningLiveLink: func() error {
			return notifier.LiveLink(cfg.LiveLink)
		},
		EveningSummary: func() error {
			_, err := publisher.PublishDaily(context.Background())
			return err
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	var archive attendance.Archive
	if cfg.Report.Bucket != "" {
		archive = &filesystem.S3Archive{Bucket: cfg.Report.Bucket, Prefix: "daily/"}
	}
	attendance.Register(protected, dm, clock, cfg.WorkingDaysPerMonth, archive)

	r.StaticFile("/", "./public/index.html")
	r.Static("/assets", "./public/assets")

	r.GET("/wfh", func(c *gin.Context) {
		c.File("./public/wfh.html")
	})

	r.NoRoute(func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Redirect(http.StatusFound, "/")
			return
		}
	})

	r.Run(cfg.ListenAddr)
}
