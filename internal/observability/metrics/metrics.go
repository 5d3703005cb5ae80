package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FramesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_frames_sent_total",
			Help: "Total number of frames written to the connection.",
		},
	)

	FramesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_frames_received_total",
			Help: "Total number of frames read from the connection.",
		},
		[]string{"kind", "result"},
	)

	TokenRotationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_token_rotations_total",
			Help: "Total number of in-band auth token rotations.",
		},
		[]string{"result"},
	)

	SessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_total",
			Help: "Total number of sessions started, by terminal outcome.",
		},
		[]string{"result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		FramesSentTotal,
		FramesReceivedTotal,
		TokenRotationsTotal,
		SessionsTotal,
	)
}
