package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the results store.
	DatabaseBackend string

	// QualityLabel represents a coarse bucket for an NDCG value.
	QualityLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All results store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Quality labels for NDCG values.
const (
	ExcellentLabel  QualityLabel = "Excellent"
	GoodLabel       QualityLabel = "Good"
	FairLabel       QualityLabel = "Fair"
	PoorLabel       QualityLabel = "Poor"
	DegenerateLabel QualityLabel = "Degenerate"
)

// DefaultCutoffs are the NDCG cutoffs evaluated when none are configured.
var DefaultCutoffs = []int{3, 5, 7, 10}

// ResultsHeader is the CSV header of the evaluation report.
var ResultsHeader = []string{"scenario", "variant", "n", "penalty", "weight", "strategy", "ndcg"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid results store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
