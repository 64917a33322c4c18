package models

// ChatRequest is the POST /chat payload.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// UsageSnapshot reports the state of the caller's daily quota after a
// rate-limit decision. Scope is "user" or "global" and names the quota
// that produced the decision.
type UsageSnapshot struct {
	Used      int64  `json:"used"`
	Remaining int64  `json:"remaining"`
	Limit     int64  `json:"limit"`
	Scope     string `json:"scope"`
}

// ChatResponse is the successful POST /chat payload. Provider is
// "primary" when the first provider in the chain answered, "fallback"
// otherwise.
type ChatResponse struct {
	OK        bool          `json:"ok"`
	UID       string        `json:"uid"`
	IsPremium bool          `json:"isPremium"`
	Provider  string        `json:"provider"`
	Limit     UsageSnapshot `json:"limit"`
	Content   string        `json:"content"`
}
