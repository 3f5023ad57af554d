package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/axiomhq/axiom-go/axiom/ingest"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	datasets []string
	events   []axiom.Event
}

func (r *recordingSink) IngestEvents(_ context.Context, dataset string, events []axiom.Event, _ ...ingest.Option) (*ingest.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets = append(r.datasets, dataset)
	r.events = append(r.events, events...)
	return &ingest.Status{}, nil
}

func TestAxiomWriterTagsAndDropsDebug(t *testing.T) {
	sink := &recordingSink{}
	shipper := newAxiomShipper(sink, "", time.Hour)
	w := &axiomWriter{shipper: shipper}

	lines := []string{
		`{"level":"debug","message":"backend extraction finished"}`,
		`{"level":"error","file":"a.pdf","message":"conversion failed"}`,
		"not json",
	}
	for _, l := range lines {
		n, err := w.Write([]byte(l))
		require.NoError(t, err)
		require.Equal(t, len(l), n)
	}
	require.NoError(t, shipper.Close())
	require.NoError(t, shipper.Close())

	require.Len(t, sink.events, 2)
	require.Equal(t, []string{"dev_pdf2text"}, sink.datasets)

	ev := sink.events[0]
	require.Equal(t, "pdf2text", ev["service"])
	require.Equal(t, "error", ev["level"])
	require.Equal(t, "a.pdf", ev["file"])
	require.Contains(t, ev, ingest.TimestampField)

	raw := sink.events[1]
	require.Equal(t, "not json", raw["message"])
	require.Equal(t, "info", raw["level"])
	require.Equal(t, "pdf2text", raw["service"])
}

func TestAxiomShipperFlushesFullBatch(t *testing.T) {
	sink := &recordingSink{}
	shipper := newAxiomShipper(sink, "prod_pdf2text", time.Hour)
	defer shipper.Close()

	for i := 0; i < axiomBatchSize; i++ {
		shipper.enqueue(axiom.Event{"n": i})
	}
	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.events) == axiomBatchSize
	}, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, "prod_pdf2text", sink.datasets[0])
}
