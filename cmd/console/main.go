package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"fieldwork.com/console/core"
	"fieldwork.com/console/infrastructure/communication"
	"fieldwork.com/console/infrastructure/devops"
	"fieldwork.com/console/infrastructure/filesystem"
	"fieldwork.com/console/security"
	"fieldwork.com/console/session"
	"fieldwork.com/console/utils"
	"fieldwork.com/console/web"
	"fieldwork.com/console/web/common"
	"fieldwork.com/console/web/handlers/attendance"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "console.yaml", "path to the yaml configuration")
	flag.Parse()

	cfg, err := devops.Load(context.Background(), *configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("using API: %s\n", cfg.API.BaseURL)

	var store session.Store = session.NewMemoryStore()
	if cfg.Session.Dir != "" {
		fileStore, err := session.NewFileStore(cfg.Session.Dir)
		if err != nil {
			log.Fatal("Failed to open session store:", err)
		}
		store = fileStore
	}

	notifier := communication.ConnectSlack(cfg.Slack.BotToken, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannelID,
		ErrorChannelID: cfg.Slack.ErrorChannelID,
	})

	screens := core.NewScreenRegistry()
	sessions := session.NewManager(store)
	sessions.OnInvalidate(func(ev session.Invalidation) {
		screens.Drop(ev.SessionID)
		log.Printf("[INFO] session %s signed out: %s", ev.SessionID, ev.Reason)
		if ev.Reason == security.ReasonSessionExpired {
			_ = notifier.Info(fmt.Sprintf("console session expired at %s", ev.At.Format(time.RFC3339)))
		}
	})

	base := &common.Handler{
		APIBaseURL: cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Sessions:   sessions,
		Screens:    screens,
		Notifier:   notifier,
		Location:   utils.LoadLocation(cfg.Console.Timezone),
		Now:        time.Now,
	}

	// a nil *Bucket inside the interface would not compare equal to nil
	var exports attendance.ExportStore
	if cfg.Export.Bucket != "" {
		exports = filesystem.NewBucket(cfg.Export.Bucket, cfg.Export.Prefix)
	}

	r := web.NewRouter(gin.Default(), base, exports)
	if err := r.Run(cfg.Console.Addr); err != nil {
		log.Fatal(err)
	}
}
