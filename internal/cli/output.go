package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to stdout and stderr
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout, os.Stderr)
}

// NewOutputTo creates a new Output formatter writing to the given streams
func NewOutputTo(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// PrintEvent outputs a game event, one JSON object per line in json mode
func (o *Output) PrintEvent(evt GameEvent) {
	if o.format == "json" {
		data, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(o.w, string(data))
		return
	}

	if line := evt.Describe(); line != "" {
		_, _ = fmt.Fprintf(o.w, "[%s] %s\n", time.Now().Format("15:04:05"), line)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case StatsResult:
		o.printStatsResult(v)
	case TokenResult:
		_, _ = fmt.Fprintf(o.w, "Token: %s\n", v.Token)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionary_size"`
}

// StatsResult response type
type StatsResult struct {
	Connections int `json:"connections"`
	Players     int `json:"players"`
	Waiting     int `json:"waiting"`
	Matched     int `json:"matched"`
	Finished    int `json:"finished"`
}

// TokenResult holds a signed handshake token
type TokenResult struct {
	Subject string `json:"subject"`
	Token   string `json:"token"`
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	_, _ = fmt.Fprintf(o.w, "Dictionary: %d words\n", h.DictionarySize)
}

func (o *Output) printStatsResult(s StatsResult) {
	_, _ = fmt.Fprintf(o.w, "Connections: %d\n", s.Connections)
	_, _ = fmt.Fprintf(o.w, "Players: %d (waiting %d, matched %d, finished %d)\n",
		s.Players, s.Waiting, s.Matched, s.Finished)
}
