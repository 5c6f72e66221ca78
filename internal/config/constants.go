package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./biblioteka.db"

	// DefaultGenres are seeded on first start when the genres table is empty
	DefaultGenres = "Fantasy,Adventure,Science Fiction,Mystery,Romance,Non-fiction"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)
