package controllers

import (
	"net/http"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vardhman-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vardhman-Env", cfg.App.Env)

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
