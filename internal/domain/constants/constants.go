// Package constants holds configuration values shared across layers.
package constants

// Environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Federated identity providers.
const (
	IdentityProviderNone     = "none"
	IdentityProviderFirebase = "firebase"
	IdentityProviderGoogle   = "google"
)

// Category cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Client-side paths the API refers to in redirects and navigation models.
const (
	PathRoot     = "/"
	PathLogin    = "/compte/connexion"
	PathRegister = "/compte/inscription"
	PathAccount  = "/compte"
	PathAdmin    = "/compte/admin"
)

// ProductImagePrefix is the object storage prefix for product images.
const ProductImagePrefix = "products"
