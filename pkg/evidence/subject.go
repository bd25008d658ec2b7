package evidence

import "strings"

var subjectPrefixes = []string{"re:", "fwd:", "fw:", "response:"}

// NormalizeSubject case-folds an email subject and strips leading reply and
// forward prefixes until none remain, so that "RE: Fwd: Budget" and "budget"
// group together.
func NormalizeSubject(subject string) string {
	if subject == "" {
		return ""
	}
	normalized := strings.ToLower(subject)
	for {
		stripped := false
		for _, prefix := range subjectPrefixes {
			if strings.HasPrefix(normalized, prefix) {
				normalized = strings.TrimSpace(normalized[len(prefix):])
				stripped = true
			}
		}
		if !stripped {
			return normalized
		}
	}
}
