package logger

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/axiomhq/axiom-go/axiom/ingest"
)

const (
	axiomService   = "pdf2text"
	axiomBatchSize = 200
	axiomQueueSize = 1000
)

// eventSink is the part of *axiom.Client the shipper needs.
type eventSink interface {
	IngestEvents(ctx context.Context, dataset string, events []axiom.Event, options ...ingest.Option) (*ingest.Status, error)
}

func newAxiomSink(token, orgID string) (*axiom.Client, error) {
	opts := []axiom.Option{axiom.SetToken(token)}
	if orgID != "" {
		opts = append(opts, axiom.SetOrganizationID(orgID))
	}
	return axiom.NewClient(opts...)
}

// axiomWriter turns zerolog JSON lines into Axiom events. Debug lines stay
// local.
type axiomWriter struct{ shipper *axiomShipper }

func (w *axiomWriter) Write(p []byte) (int, error) {
	ev := axiom.Event{}
	if err := json.Unmarshal(p, &ev); err != nil {
		ev = axiom.Event{"message": string(p), "level": "info"}
	}
	if ev["level"] == "debug" {
		return len(p), nil
	}
	ev["service"] = axiomService
	if _, ok := ev[ingest.TimestampField]; !ok {
		ev[ingest.TimestampField] = time.Now()
	}
	w.shipper.enqueue(ev)
	return len(p), nil
}

// axiomShipper batches events in the background and ingests them every
// flush interval, when a batch fills up and on Close.
type axiomShipper struct {
	sink    eventSink
	dataset string
	queue   chan axiom.Event
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func newAxiomShipper(sink eventSink, dataset string, every time.Duration) *axiomShipper {
	if dataset == "" {
		dataset = "dev_pdf2text"
	}
	if every <= 0 {
		every = 10 * time.Second
	}
	s := &axiomShipper{
		sink:    sink,
		dataset: dataset,
		queue:   make(chan axiom.Event, axiomQueueSize),
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run(every)
	return s
}

// enqueue never blocks the logger; events are dropped when the queue is full.
func (s *axiomShipper) enqueue(ev axiom.Event) {
	select {
	case s.queue <- ev:
	default:
	}
}

func (s *axiomShipper) run(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	pending := make([]axiom.Event, 0, axiomBatchSize)
	ship := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		_, _ = s.sink.IngestEvents(ctx, s.dataset, pending)
		cancel()
		pending = make([]axiom.Event, 0, axiomBatchSize)
	}

	for {
		select {
		case ev := <-s.queue:
			pending = append(pending, ev)
			if len(pending) >= axiomBatchSize {
				ship()
			}
		case <-ticker.C:
			ship()
		case <-s.done:
			for {
				select {
				case ev := <-s.queue:
					pending = append(pending, ev)
				default:
					ship()
					return
				}
			}
		}
	}
}

// Close ships whatever is queued and stops the background loop.
func (s *axiomShipper) Close() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}
