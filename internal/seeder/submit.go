package seeder

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/pkg/logger"
)

const workerChannelMultiplier = 2

type submitResult struct {
	accepted  int64
	duplicate int64
	failed    int64
}

// submitEvents posts events with cfg.Workers concurrent submitters.
func submitEvents(ctx context.Context, cfg *Config, client *Client, events []model.VideoEvent) submitResult {
	log := logger.Get().Named("seeder")
	var accepted, duplicate, failed atomic.Int64

	eventChan := make(chan model.VideoEvent, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range eventChan {
				if ctx.Err() != nil {
					failed.Add(1)
					continue
				}
				result := client.SubmitVideo(ctx, e)
				switch result {
				case resultAccepted:
					accepted.Add(1)
				case resultDuplicate:
					duplicate.Add(1)
				default:
					failed.Add(1)
				}
				if cfg.Verbose {
					log.Debug(ctx, "video submitted",
						logger.String("eventID", e.EventID),
						logger.String("videoID", e.VideoID),
						logger.String("result", result))
				}
			}
		}()
	}

	for _, e := range events {
		eventChan <- e
	}
	close(eventChan)
	wg.Wait()

	return submitResult{
		accepted:  accepted.Load(),
		duplicate: duplicate.Load(),
		failed:    failed.Load(),
	}
}
