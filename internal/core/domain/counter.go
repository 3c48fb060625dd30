package domain

// SequenceCounter is a named, monotonically increasing integer sequence used to
// mint human-readable numbers (patient, OPD, IPD, billNo). Counters are created
// lazily on first increment and never deleted; Reset exists for administrative
// correction only.
type SequenceCounter struct {
	Name          string `json:"name"` // Primary Key
	SequenceValue int64  `json:"sequenceValue"`
}

// Well-known counter names.
const (
	CounterPatientNumber = "patientNumber"
	CounterOPDNumber     = "opdNumber"
	CounterIPDNumber     = "ipdNumber"
	CounterBillNo        = "billNo"
)
