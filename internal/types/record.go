package types

// Difficulty is the difficulty label scraped from a problem page.
type Difficulty string

const (
	// DifficultyEasy is the lowest severity
	DifficultyEasy Difficulty = "Easy"
	// DifficultyMedium is the middle severity
	DifficultyMedium Difficulty = "Medium"
	// DifficultyHard is the highest known severity
	DifficultyHard Difficulty = "Hard"
	// DifficultyUnknown is used whenever the label is missing or the lookup failed
	DifficultyUnknown Difficulty = "Unknown"
)

// TopicUnknown is the topic value used when no topic tag is found.
const TopicUnknown = "Unknown"

var difficultySeverity = map[Difficulty]int{
	DifficultyEasy:    0,
	DifficultyMedium:  1,
	DifficultyHard:    2,
	DifficultyUnknown: 3,
}

// ParseDifficulty maps a label to a Difficulty. Anything other than the
// three known labels becomes DifficultyUnknown.
func ParseDifficulty(label string) Difficulty {
	switch d := Difficulty(label); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyUnknown
	}
}

// Severity returns the sort rank: Easy < Medium < Hard < Unknown.
func (d Difficulty) Severity() int {
	if s, ok := difficultySeverity[d]; ok {
		return s
	}
	return difficultySeverity[DifficultyUnknown]
}

// Metadata holds the enrichment result for a single problem link.
type Metadata struct {
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
}

// UnknownMetadata is the fallback returned for any failed lookup.
func UnknownMetadata() Metadata {
	return Metadata{Difficulty: DifficultyUnknown, Topic: TopicUnknown}
}

// IsUnknown reports whether neither field carries information.
func (m Metadata) IsUnknown() bool {
	return m.Difficulty == DifficultyUnknown && m.Topic == TopicUnknown
}

// EnrichedRecord is one (problem, company) association with its metadata.
type EnrichedRecord struct {
	Company     string     `json:"company"`
	ProblemName string     `json:"problem_name"`
	Link        string     `json:"link"`
	Difficulty  Difficulty `json:"difficulty"`
	Topic       string     `json:"topic"`
}

// TopicFrequency counts records sharing a (company, topic) pair.
type TopicFrequency struct {
	Company   string `json:"company"`
	Topic     string `json:"topic"`
	Frequency int    `json:"frequency"`
}
