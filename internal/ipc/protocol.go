package ipc

// Commands served by the interview owner process.
const (
	CommandStatus = "status"
	CommandNext   = "next"
	CommandStop   = "stop"
)

type Request struct {
	Command string `json:"command"`
}

// Response reports the outcome of a command plus the session snapshot.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	Session    string `json:"session,omitempty"`
	Elapsed    string `json:"elapsed,omitempty"`
	Listening  bool   `json:"listening,omitempty"`
	Silence    int    `json:"silence,omitempty"`
	Words      int    `json:"words,omitempty"`
	Countdown  int    `json:"countdown,omitempty"`
	Answers    int    `json:"answers,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}
