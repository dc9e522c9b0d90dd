package database

import "time"

type Config struct {
	// Empty file name disables run history.
	FileName    string        `envconfig:"KMEANS_DB_FILE"`
	OpenTimeout time.Duration `envconfig:"KMEANS_DB_OPEN_TIMEOUT" default:"5s"`
}

func (c Config) Enabled() bool {
	return c.FileName != ""
}
