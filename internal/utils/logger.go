package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized line per domain event. Amounts and
// identifiers only; never log credentials or token material.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s/%s] rid=%s %s", strings.ToUpper(module), action, req, message)
}
