package schema

// Custom string types for type safety.
type (
	// Mode selects how a composite member is compared.
	Mode string

	// Kind is the dynamic kind of a tree value.
	Kind string

	// OutputMode represents the format of the output.
	OutputMode string

	// InputFormat represents the encoding of a document on disk.
	InputFormat string
)

// All member modes supported.
const (
	RecurseMode  Mode = "recurse" // default
	EqualityMode Mode = "eq"
)

// All tree kinds supported.
const (
	NullKind   Kind = "null"
	BoolKind   Kind = "bool"
	NumberKind Kind = "number"
	TextKind   Kind = "text"
	ArrayKind  Kind = "array"
	ObjectKind Kind = "object"

	// UnknownKind is reported for values outside the tree shape.
	UnknownKind Kind = "unknown"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All input formats supported.
const (
	AutoFormat InputFormat = "auto" // default
	JSONFormat InputFormat = "json"
	YAMLFormat InputFormat = "yaml"
)

// Scoring defaults shared by every scorer.
const (
	DefaultWeight          = 1.0
	DefaultMissingCost     = 1.0
	DefaultMismatchPenalty = 1.0
	DefaultMatchWindow     = 5
	DefaultOrderPenalty    = 1.0

	// KindMismatchScore is charged by the tree adapter when two values differ in kind.
	KindMismatchScore = 1.0
)

// ValidModes lists all valid member modes.
var ValidModes = map[Mode]struct{}{
	RecurseMode:  {},
	EqualityMode: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	AutoFormat: {},
	JSONFormat: {},
	YAMLFormat: {},
}
