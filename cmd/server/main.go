package main // Entry point package

import (
	"log"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/queue"
	"tasktracker/internal/repository"
	"tasktracker/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	e := router.New(router.Deps{
		Cfg:    cfg,
		Users:  repository.NewUserRepo(db),
		Tasks:  repository.NewTaskRepo(db),
		Cache:  config.NewRedisClient(), // nil when Redis is unreachable
		Events: publisherOrNil(),       // nil when no broker configured
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// publisherOrNil avoids handing the router a non-nil interface wrapping a
// nil *AMQPPublisher.
func publisherOrNil() queue.Publisher {
	if p := queue.NewAMQPPublisherFromEnv(); p != nil {
		return p
	}
	return nil
}
