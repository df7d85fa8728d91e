package http

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type metricsResponse struct {
	TotalRequests         int64 `json:"totalRequests"`
	AverageResponseMicros int64 `json:"averageResponseMicros"`
	RateLimitedClients    int   `json:"rateLimitedClients"`
	CachedReports         int   `json:"cachedReports"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, metricsResponse{
		TotalRequests:         m.TotalRequests,
		AverageResponseMicros: m.AverageResponseTime,
		RateLimitedClients:    s.rateLimiter.ActiveClients(),
		CachedReports:         s.reportCache.Size(),
	})
}
