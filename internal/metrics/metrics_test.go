package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ObserveBackend("structured", 10*time.Millisecond, errors.New("bad"))
	r.ObserveBackend("simple", 5*time.Millisecond, nil)
	r.ObserveDocument(20*time.Millisecond, true, nil)
	r.ObserveDocument(time.Millisecond, false, errors.New("both failed"))

	require.Equal(t, 1.0, testutil.ToFloat64(r.backendCalls.WithLabelValues("structured", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.backendCalls.WithLabelValues("simple", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks))
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.ObserveBackend("simple", time.Millisecond, nil)
	path := filepath.Join(t.TempDir(), "pdf2text.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pdf2text_backend_invocations_total{backend="simple",result="success"} 1`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveBackend("simple", time.Millisecond, nil)
	r.ObserveDocument(time.Millisecond, false, nil)
	require.NoError(t, r.WriteFile(filepath.Join(t.TempDir(), "x.prom")))
}
