package config

// EnvPrefix scopes every configuration variable.
const EnvPrefix = "VARDHMAN"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "VARDHMAN_APP_ENV"
	EnvPort            = "VARDHMAN_APP_PORT"
	EnvRedisURL        = "VARDHMAN_REDIS_URL"
	EnvJWTSecret       = "VARDHMAN_JWT_SECRET"
	EnvJWTIssuer       = "VARDHMAN_JWT_ISSUER"
	EnvJWTExpMins      = "VARDHMAN_JWT_EXPIRATION_MINUTES"
	EnvGSTRateBPS      = "VARDHMAN_GST_RATE_BPS"
	EnvOrdersSubmitURL = "VARDHMAN_ORDERS_SUBMIT_URL"
)
