package scenarios

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
)

// HTTP status code constants.
const (
	StatusOK = 200
)
