package narrative

// Severity is the weight class of a narrative keyword.
type Severity int

// Keyword severities in scan order.
const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityModerate
)

// Weight returns the points a single match contributes.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityModerate:
		return 2
	default:
		return 0
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityModerate:
		return "moderate"
	default:
		return "unknown"
	}
}

// Topic groups keywords by body system or context.
type Topic string

// Keyword topics.
const (
	TopicRespiratory    Topic = "respiratory"
	TopicCardiovascular Topic = "cardiovascular"
	TopicNeurological   Topic = "neurological"
	TopicTrauma         Topic = "trauma"
	TopicConditions     Topic = "medical_conditions"
	TopicMedications    Topic = "medications"
)

// Keyword is one row of the narrative keyword table.
type Keyword struct {
	Text     string
	Severity Severity
	Topic    Topic
}

func group(sev Severity, topic Topic, words ...string) []Keyword {
	out := make([]Keyword, len(words))
	for i, w := range words {
		out[i] = Keyword{Text: w, Severity: sev, Topic: topic}
	}
	return out
}

func concat(groups ...[]Keyword) []Keyword {
	var out []Keyword
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// table is scanned in order; a keyword listed under two severities
// scores under both.
var table = concat(
	group(SeverityCritical, TopicRespiratory,
		"can't breathe", "stopped breathing", "not breathing", "respiratory arrest",
		"chest tightness", "chest pressure", "suffocating", "choking",
		"blue lips", "cyanosis", "unable to speak", "gasping"),
	group(SeverityCritical, TopicCardiovascular,
		"chest pain", "heart attack", "cardiac arrest", "heart stopped",
		"crushing chest pain", "pressure in chest", "pain radiating to arm",
		"irregular heartbeat", "skipped beats", "heart racing", "palpitations"),
	group(SeverityCritical, TopicNeurological,
		"unconscious", "passed out", "fainted", "seizure", "convulsion",
		"stroke symptoms", "facial droop", "slurred speech", "weakness on one side",
		"confusion", "disoriented", "altered mental status"),
	group(SeverityCritical, TopicTrauma,
		"major trauma", "head injury", "bleeding profusely", "uncontrolled bleeding",
		"penetrating injury", "gunshot", "stab wound", "amputation"),

	group(SeverityHigh, TopicRespiratory,
		"shortness of breath", "difficulty breathing", "wheezing", "coughing blood",
		"rapid breathing", "shallow breathing", "chest pain with breathing",
		"short of breath", "can't breathe", "trouble breathing"),
	group(SeverityHigh, TopicCardiovascular,
		"dizziness", "lightheaded", "feeling faint", "sweating profusely",
		"nausea with chest pain", "arm pain", "jaw pain", "back pain",
		"sweating", "sweat", "palpitations", "heart racing", "irregular heartbeat"),
	group(SeverityHigh, TopicNeurological,
		"severe headache", "worst headache", "sudden headache", "vision changes",
		"numbness", "tingling", "weakness", "difficulty walking"),
	group(SeverityHigh, TopicConditions,
		"diabetes", "diabetic", "high blood pressure", "heart disease",
		"copd", "asthma", "emphysema", "lung disease"),

	group(SeverityModerate, TopicRespiratory,
		"cough", "sore throat", "runny nose", "congestion", "mild shortness of breath"),
	group(SeverityModerate, TopicCardiovascular,
		"mild chest discomfort", "heartburn", "indigestion", "anxiety",
		"stress", "feeling overwhelmed"),
	group(SeverityModerate, TopicNeurological,
		"mild headache", "tired", "fatigue", "dizzy spells"),
	group(SeverityModerate, TopicMedications,
		"blood thinner", "warfarin", "coumadin", "aspirin", "plavix",
		"insulin", "diabetes medication", "heart medication"),
)

// Keywords returns a copy of the keyword table in scan order.
func Keywords() []Keyword {
	out := make([]Keyword, len(table))
	copy(out, table)
	return out
}

// alert is a fixed insight emitted when any of its markers appears.
type alert struct {
	markers []string
	insight string
}

var alerts = []alert{
	{[]string{"diabetes", "diabetic"}, "Diabetes Alert: Check blood glucose, monitor for hypo/hyperglycemia"},
	{[]string{"heart", "cardiac"}, "Cardiac History: Prepare for cardiac assessment, consider ECG"},
	{[]string{"copd", "asthma", "lung"}, "Respiratory Condition: Monitor airway, prepare breathing treatments"},
	{[]string{"stroke", "cva"}, "Stroke History: Monitor for new symptoms, check FAST signs"},
	{[]string{"blood thinner", "warfarin", "coumadin"}, "Blood Thinner Alert: Increased bleeding risk, check for bleeding"},
	{[]string{"insulin"}, "Insulin Alert: Check blood glucose, watch for hypoglycemia"},
}
