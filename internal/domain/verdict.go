package domain

type VerdictStatus string

const (
	VerdictComplete   VerdictStatus = "complete"
	VerdictIncomplete VerdictStatus = "incomplete"
	VerdictInvalid    VerdictStatus = "invalid"
)

// Verdict classifies an order item against the menu. The status is a
// category, not a score.
type Verdict struct {
	Status VerdictStatus `bson:"status" json:"status"`
	Reason string        `bson:"reason" json:"reason"`
}

func Complete(reason string) Verdict { return Verdict{Status: VerdictComplete, Reason: reason} }

func Incomplete(reason string) Verdict { return Verdict{Status: VerdictIncomplete, Reason: reason} }

func Invalid(reason string) Verdict { return Verdict{Status: VerdictInvalid, Reason: reason} }
