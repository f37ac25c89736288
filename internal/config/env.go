package config

import "github.com/caarlos0/env/v11"

// Server holds process-level options, all overridable from the
// environment.
type Server struct {
	Port        string `env:"PORT" envDefault:"8374"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	BalanceFile string `env:"BALANCE_FILE" envDefault:"verdant.yml"`

	// AdminToken authorizes the escrow sweep and wallet freezing. Leaving
	// it empty disables the admin surface entirely.
	AdminToken string `env:"ADMIN_TOKEN"`

	// UseDB switches the plant store from in-memory to SQLite at DBPath.
	UseDB  bool   `env:"USE_DB"`
	DBPath string `env:"DB_PATH" envDefault:"data/verdant.db"`
}

func ServerFromEnv() (Server, error) {
	var s Server
	if err := env.Parse(&s); err != nil {
		return Server{}, err
	}
	return s, nil
}
