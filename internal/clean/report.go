package clean

// Reason identifies the first validity rule a rejected row failed.
type Reason string

const (
	ReasonBadTimestamp     Reason = "bad_timestamp"
	ReasonBadPrice         Reason = "bad_price"
	ReasonBadVolume        Reason = "bad_volume"
	ReasonNonPositivePrice Reason = "non_positive_price"
	ReasonOutOfBand        Reason = "out_of_band"
	ReasonOutOfSession     Reason = "out_of_session"
	ReasonDuplicate        Reason = "duplicate"
)

// Reasons lists every rejection reason in rule order.
var Reasons = []Reason{
	ReasonBadTimestamp,
	ReasonBadPrice,
	ReasonBadVolume,
	ReasonNonPositivePrice,
	ReasonOutOfBand,
	ReasonOutOfSession,
	ReasonDuplicate,
}

// Report carries the per-rule rejection counts of one Clean call.
type Report struct {
	Input      int            `json:"input"`
	Accepted   int            `json:"accepted"`
	Rejections map[Reason]int `json:"rejections,omitempty"`
}

func newReport(input int) Report {
	return Report{
		Input:      input,
		Rejections: make(map[Reason]int),
	}
}

func (r *Report) reject(reason Reason) {
	r.Rejections[reason]++
}

// Rejected returns the total number of rejected rows.
func (r Report) Rejected() int {
	total := 0
	for _, n := range r.Rejections {
		total += n
	}
	return total
}

// Count returns the number of rows rejected by one rule.
func (r Report) Count(reason Reason) int {
	return r.Rejections[reason]
}
