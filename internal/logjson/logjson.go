// Package logjson emits single-line JSON log entries on the standard logger,
// for startup-phase components that run before the request-scoped logger is
// in play (migrations, tracing bootstrap).
package logjson

import (
	"encoding/json"
	"log"
	"time"
)

// Log stamps the entry with ts and a level derived from status (unless one is
// already set) and writes it as one JSON line.
func Log(loc *time.Location, fields map[string]any) {
	fields["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := fields["level"]; !ok {
		if fields["status"] == "error" {
			fields["level"] = "error"
		} else {
			fields["level"] = "info"
		}
	}

	b, err := json.Marshal(fields)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
