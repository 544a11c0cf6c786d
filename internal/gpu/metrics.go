package gpu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultMatched = "matched"
	resultDefault = "default"
)

var probeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sysdash_gpu_probe_total",
		Help: "GPU identification attempts by outcome",
	},
	[]string{"result"},
)
