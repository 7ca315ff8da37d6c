package controllers

import (
	"net/http"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
