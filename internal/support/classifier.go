package support

import (
	"slices"
	"strings"
)

var supportKeywords = []string{
	"order", "delivery", "refund", "payment", "error", "problem", "issue",
	"cancel", "technical", "account", "tracking", "return", "ship", "charge",
}

// Category groups in priority order; the first group with a match wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryDelivery, []string{"delivery", "delay", "ship", "tracking", "arrive", "late", "package"}},
	{CategoryRefund, []string{"refund", "money", "return", "cancel", "charge", "payment"}},
	{CategoryTechnical, []string{"error", "not working", "bug", "crash", "login", "technical", "app", "website", "page"}},
}

// domainKeywords is the gate set: the support keywords plus every category
// keyword, so that anything the classifier can place is also admitted.
var domainKeywords = func() []string {
	out := slices.Clone(supportKeywords)
	for _, rule := range categoryRules {
		for _, k := range rule.keywords {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out
}()

// IsInDomain reports whether text mentions any customer-support keyword.
// Plain case-insensitive substring match.
func IsInDomain(text string) bool {
	return containsAny(strings.ToLower(text), domainKeywords)
}

// Classify assigns the issue category of text.
func Classify(text string) Category {
	t := strings.ToLower(text)
	for _, rule := range categoryRules {
		if containsAny(t, rule.keywords) {
			return rule.category
		}
	}
	return CategoryOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
