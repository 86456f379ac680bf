package middleware

import (
	"bytes"
	"mindwell-api/internal/logger"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type ResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

type RequestLogger struct {
	logService services.RequestLogService
}

func NewRequestLogger(logService services.RequestLogService) *RequestLogger {
	return &RequestLogger{
		logService: logService,
	}
}

func (rl *RequestLogger) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &ResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		user, ok := services.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		summary := createRequestSummary(r)

		next.ServeHTTP(rw, r)

		status := models.StatusSuccess
		if rw.status >= 400 {
			status = models.StatusError
		}

		err := rl.logService.LogRequest(
			user.ID.String(),
			r.URL.Path,
			r.Method,
			rw.status,
			status,
			summary,
		)

		if err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error": err,
				"user":  user.ID,
				"path":  r.URL.Path,
			}).Error("Failed to log request")
		}
	})
}

func createRequestSummary(r *http.Request) string {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/"), "/")
	if len(parts) == 0 {
		return "API request"
	}

	switch parts[0] {
	case "journal":
		return "Journal " + strings.ToLower(r.Method)
	case "goals":
		return "Goal " + strings.ToLower(r.Method)
	case "lists":
		if len(parts) > 1 {
			return "Daily list: " + parts[1]
		}
		return "Daily list"
	case "meditations":
		return "Meditation " + strings.ToLower(r.Method)
	case "matrices":
		return "Decision matrix " + strings.ToLower(r.Method)
	case "ai":
		if len(parts) > 1 {
			return "AI flow: " + parts[1]
		}
		return "AI flow"
	case "usage":
		return "Usage summary"
	case "billing":
		return "Billing request"
	}

	return "API request"
}
