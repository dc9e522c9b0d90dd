package run

import "time"

type Config struct {
	// Buffer size at which records are flushed to the db
	FlushSize int `envconfig:"KMEANS_HISTORY_FLUSH_SIZE" default:"50"`
	// Longest time a record waits in the buffer
	FlushTime time.Duration `envconfig:"KMEANS_HISTORY_FLUSH_TIME" default:"5s"`
	// Maximum number of records kept, 0 keeps everything
	MaxItemsStored int `envconfig:"KMEANS_HISTORY_MAX_ITEMS" default:"100000"`
	// Maximum age of a record, 0 keeps everything
	MaxStorageTime time.Duration `envconfig:"KMEANS_HISTORY_MAX_AGE" default:"168h"`
	// Interval of the retention pass
	RebuildDBTime time.Duration `envconfig:"KMEANS_HISTORY_REBUILD_TIME" default:"1m"`
}
