/*
Package server implements msgpack IPC for sign overlay services.

The server package provides a minimal interface for document scanning and
hover media requests using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports document loading,
match scanning, hover resolution, variant cycling and form lookups.
Scan requests are processed synchronously with timing info included in
responses; hover responses arrive once the clip resolves, which may be
after replies to later requests, so clients must correlate by ID.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field, a cmd field and other fields based on
the operation type.

Load requests install a document and return its matches:

	{"id": "req_001", "cmd": "load", "x": "She wants to book a flight."}

The server responds with every painted occurrence plus the word chips:

	{"id": "req_001", "m": [{"s": "book", "w": "book", "p": 13, "n": 4}], "ws": ["book"], "c": 1, "t": 2}

Hover requests name the surface word and its byte offset:

	{"id": "req_002", "cmd": "hover", "w": "book", "p": 13}

and resolve to a status of "ready", "no_media" or "stale" plus the clip
bytes when available. "next" cycles an already fetched word through its
variants, "forms" lists every highlightable surface form, and "health"
reports cache and match counters.

Response structures include status information and error details when an
op fail.

msgpack encoding keeps clip payloads compact compared to JSON base64 and
parses with less overhead on both ends of the pipe.
*/
package server

// Request is the single incoming message envelope. Cmd selects the
// operation: "load", "scan", "hover", "next", "forms", "clear", "health".
type Request struct {
	ID   string `msgpack:"id"`
	Cmd  string `msgpack:"cmd"`
	Text string `msgpack:"x,omitempty"` // load: document payload
	HTML bool   `msgpack:"h,omitempty"` // load: parse payload as HTML
	Word string `msgpack:"w,omitempty"` // hover/next/forms: surface word
	Pos  int    `msgpack:"p,omitempty"` // hover: byte offset of the occurrence
}

// ScanMatch - one painted occurrence
type ScanMatch struct {
	Surface   string `msgpack:"s"`
	Canonical string `msgpack:"w"`
	Pos       int    `msgpack:"p"`
	Length    int    `msgpack:"n"`
}

// ScanResponse - load/scan response
type ScanResponse struct {
	ID        string      `msgpack:"id"`
	Matches   []ScanMatch `msgpack:"m"`
	Words     []string    `msgpack:"ws"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// HoverResponse - hover/next response carrying the resolved clip
type HoverResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Variant   int    `msgpack:"v"`
	Total     int    `msgpack:"n"`
	EntryID   string `msgpack:"e,omitempty"`
	Media     []byte `msgpack:"d,omitempty"`
	MediaType string `msgpack:"mt,omitempty"`
	Status    string `msgpack:"status"`
	TimeTaken int64  `msgpack:"t"`
}

// FormsResponse - surface form lookup response
type FormsResponse struct {
	ID    string   `msgpack:"id"`
	Word  string   `msgpack:"w"`
	Forms []string `msgpack:"f"`
	Count int      `msgpack:"c"`
}

// StatusResponse - readiness and health response
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// RequestError holds basic error information for failed requests
type RequestError struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
