package benchmark

// The fixture graph is the usual config -> logger -> database/cache ->
// repository -> service chain. Exported fields let graft autowire the same
// shapes the other frameworks build through constructors.

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}
