package api

import (
	"net/http"

	"github.com/heysubinoy/jsonkv/internal/store"
)

// MetricsHandler returns current store metrics as JSON.
// Only works if the server was initialized with an InstrumentedStore.
func MetricsHandler(instrumentedStore *store.InstrumentedStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := instrumentedStore.GetMetrics()

		keys, err := instrumentedStore.Count()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		response := map[string]interface{}{
			"keys": keys,
			"operations": map[string]uint64{
				"create":  metrics.CreateCount,
				"get":     metrics.GetCount,
				"replace": metrics.ReplaceCount,
				"delete":  metrics.DeleteCount,
			},
			"avg_latency": map[string]string{
				"create":  metrics.CreateAvgLatency.String(),
				"get":     metrics.GetAvgLatency.String(),
				"replace": metrics.ReplaceAvgLatency.String(),
				"delete":  metrics.DeleteAvgLatency.String(),
			},
		}

		writeJSON(w, http.StatusOK, response)
	}
}
