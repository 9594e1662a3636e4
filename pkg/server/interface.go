/*
Package server implements msgpack IPC for hehify.

Clients write msgpack maps to stdin and read one msgpack map per request
from stdout. Logs go to stderr.

Transform requests carry the text and optional per-request overrides:

	{"id": "req_001", "t": "Привет, как дела?", "r": 1, "lv": 0.5, "sd": 42}

The server answers with the transformed text, the number of changed
words, per-call stats and the time taken in microseconds:

	{"id": "req_001", "t": "Хивет, хак хела?", "c": 3, "s": {"w": 3, "c": 3, "r": 3, "p": 0}, "tt": 85}

Failed requests get an error with a numeric code (400 bad request, 422
invalid settings, 500 internal):

	{"id": "req_001", "e": "text exceeds 65536 bytes", "c": 400}

Messages with an "action" key manage the running server:

	{"id": "cfg_001", "action": "health"}
	{"id": "cfg_002", "action": "get_config"}
	{"id": "cfg_003", "action": "set_settings", "rate": 0.5, "level": 0.3, "seed": 7}

set_settings persists the new values to the active config file. A request
without an id is answered with a generated one.

The server counts requests and reloads the config file every
reload_every requests so edits made while it runs take effect.
*/
package server

// TransformRequest is a text transform request.
type TransformRequest struct {
	ID    string   `msgpack:"id"`
	Text  string   `msgpack:"t"`
	Rate  *float64 `msgpack:"r,omitempty"`
	Level *float64 `msgpack:"lv,omitempty"`
	Seed  *int64   `msgpack:"sd,omitempty"`
}

// WordStats mirrors heh.Stats on the wire.
type WordStats struct {
	Words     int `msgpack:"w"`
	Changed   int `msgpack:"c"`
	Replaced  int `msgpack:"r"`
	Protected int `msgpack:"p"`
}

// TransformResponse is the reply to a TransformRequest.
type TransformResponse struct {
	ID        string    `msgpack:"id"`
	Text      string    `msgpack:"t"`
	Changed   int       `msgpack:"c"`
	Stats     WordStats `msgpack:"s"`
	TimeTaken int64     `msgpack:"tt"`
}

// ErrorResponse holds basic error information for failed requests.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// AdminRequest is a server management request.
type AdminRequest struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"` // "health", "get_config", "set_settings"
	Rate   *float64 `msgpack:"rate,omitempty"`
	Level  *float64 `msgpack:"level,omitempty"`
	Seed   *int64   `msgpack:"seed,omitempty"`
}

// SettingsInfo describes the active transform settings.
type SettingsInfo struct {
	Rate          float64 `msgpack:"rate"`
	Level         float64 `msgpack:"level"`
	Seed          *int64  `msgpack:"seed,omitempty"`
	ReseedPerWord bool    `msgpack:"reseed_per_word"`
	MaxTextLen    int     `msgpack:"max_text_len"`
}

// AdminResponse is the reply to an AdminRequest.
type AdminResponse struct {
	ID       string        `msgpack:"id"`
	Status   string        `msgpack:"status"`
	Error    string        `msgpack:"error,omitempty"`
	Settings *SettingsInfo `msgpack:"settings,omitempty"`
	Requests int           `msgpack:"requests,omitempty"`
}

// actionHeader peeks at a message to route it.
type actionHeader struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
}
