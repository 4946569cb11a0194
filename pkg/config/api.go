package config

// APIConfig holds runtime configuration for the auth API service.
type APIConfig struct {
	Environment   string
	Addr          string
	StoreBackend  string
	DatabaseURL   string
	MigrationsDir string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:   GetString("APP_ENV", "development"),
		Addr:          GetString("API_ADDR", ":4000"),
		StoreBackend:  GetString("STORE_BACKEND", "postgres"),
		DatabaseURL:   GetString("DATABASE_URL", "postgres://auth:auth@db:5432/auth?sslmode=disable"),
		MigrationsDir: GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		MongoURI:      GetString("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase: GetString("MONGO_DB", "auth"),
		RedisAddr:     GetString("REDIS_ADDR", "redis:6379"),
		RedisPassword: GetString("REDIS_PASSWORD", ""),
		RedisDB:       GetInt("REDIS_DB", 0),
	}
}
