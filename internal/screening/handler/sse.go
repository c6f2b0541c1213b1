package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"lexscreen/internal/screening/models"
)

// writeSSE writes one event in text/event-stream framing, using the event
// type as the SSE event name.
func writeSSE(w io.Writer, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
	return err
}
