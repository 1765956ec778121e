package jwtmiddleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const WebhookSecretHeader = "X-Webhook-Secret"

// NewWebhookSecretMiddleware защищает вебхук платёжной системы общим секретом.
// В конфиге хранится только bcrypt-хеш секрета. Пустой хеш закрывает вебхук полностью.
func NewWebhookSecretMiddleware(secretHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretHash == "" {
				writeError(w, http.StatusUnauthorized, "webhook is not configured")
				return
			}
			secret := r.Header.Get(WebhookSecretHeader)
			if secret == "" {
				writeError(w, http.StatusUnauthorized, "missing webhook secret")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid webhook secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
