package support

const ReactivePreamble = "You are a basic automated customer support bot. Respond professionally and concisely to the SINGLE query only."

const ContextAwarePreamble = "You are an intelligent, context-aware AI customer support agent. Use full conversation history for consistent, personalized replies."

const StrategicPreamble = "You are a strategic AI customer support agent. Deliver excellent support and contribute to business intelligence."

const TitlePrompt = "Create a short, professional title (max 6 words) for this support chat based only on the first customer message: "

const InsightPrompt = `You are a senior business analyst.
Current session issues: %s
Total messages: %d
Give ONE powerful, actionable recommendation to reduce these complaints.`

const (
	FailureMarker  = "⚠️"
	FailurePrefix  = FailureMarker + " Service temporarily unavailable."
	DefaultTitle   = "Customer Support Session"
	InsightPending = "Live insight coming soon..."
	MaxTitleLength = 60
)
