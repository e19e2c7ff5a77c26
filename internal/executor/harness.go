package executor

import (
	"bufio"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"strings"
)

//go:embed harness.js
var harnessSource string

// Environment variables the harness reads its input from.
const (
	EnvSource = "HARNESS_SOURCE"
	EnvMark   = "HARNESS_MARK"
)

// kindDone terminates a harness transcript. It is written after console.log is restored.
const kindDone = "done"

// HarnessScript returns the JavaScript program that wraps the user's code.
// It is passed to `node -e`.
func HarnessScript() string {
	return harnessSource
}

// HarnessEnv builds the environment entries ("KEY=value") that feed source into the harness.
// The source is base64 encoded so arbitrary bytes survive the environment block.
func HarnessEnv(source, mark string) []string {
	return []string{
		EnvSource + "=" + base64.StdEncoding.EncodeToString([]byte(source)),
		EnvMark + "=" + mark,
	}
}

// Transcript is a decoded harness run.
type Transcript struct {
	Events []OutputEvent
	// ElapsedMs is the evaluation time measured inside the harness. Only valid when Complete.
	ElapsedMs float64
	// Complete is true once the done line was seen.
	Complete bool
	// Stray holds stdout lines that did not carry the protocol mark.
	Stray []string
}

type harnessLine struct {
	Kind      string  `json:"kind"`
	Text      string  `json:"text"`
	ElapsedMs float64 `json:"elapsedMs"`
}

// DecodeTranscript parses harness stdout. Protocol lines are prefixed with mark; anything
// else was written by the evaluated code directly to stdout and is returned as Stray.
// Marked lines that break the log, outcome, done order are Stray as well.
func DecodeTranscript(stdout, mark string) Transcript {
	var (
		t       Transcript
		outcome bool
	)

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		payload, ok := strings.CutPrefix(raw, mark)
		if !ok {
			if raw != "" {
				t.Stray = append(t.Stray, raw)
			}
			continue
		}

		var line harnessLine
		if err := json.Unmarshal([]byte(payload), &line); err != nil {
			t.Stray = append(t.Stray, raw)
			continue
		}

		// A transcript is logs, at most one outcome, then done. Anything out of
		// that order was not written by the harness.
		switch {
		case t.Complete:
			t.Stray = append(t.Stray, raw)
		case line.Kind == kindDone:
			t.Complete = true
			t.ElapsedMs = line.ElapsedMs
		case line.Kind == string(KindLog) && !outcome:
			t.Events = append(t.Events, OutputEvent{Kind: KindLog, Text: line.Text})
		case (line.Kind == string(KindResult) || line.Kind == string(KindError)) && !outcome:
			outcome = true
			t.Events = append(t.Events, OutputEvent{Kind: EventKind(line.Kind), Text: line.Text})
		default:
			t.Stray = append(t.Stray, raw)
		}
	}

	return t
}
