package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandInterview Command = "interview"
	CommandNext      Command = "next"
	CommandStop      Command = "stop"
	CommandStatus    Command = "status"
	CommandDevices   Command = "devices"
	CommandDoctor    Command = "doctor"
	CommandVersion   Command = "version"
	CommandHelp      Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandInterview: {},
	CommandNext:      {},
	CommandStop:      {},
	CommandStatus:    {},
	CommandDevices:   {},
	CommandDoctor:    {},
	CommandVersion:   {},
	CommandHelp:      {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool
	// Plain selects line output instead of the terminal UI.
	Plain bool
	// NoStart opens the interview view without starting capture.
	NoStart bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--plain":
			parsed.Plain = true
		case "--no-start":
			parsed.NoStart = true
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	if (parsed.Plain || parsed.NoStart) && parsed.Command != CommandInterview && !parsed.ShowHelp {
		return Parsed{}, fmt.Errorf("--plain and --no-start only apply to %q", CommandInterview)
	}
	if parsed.Plain && parsed.NoStart {
		return Parsed{}, errors.New("--no-start needs the terminal UI and cannot be combined with --plain")
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--plain] [--no-start] <command>

Commands:
  interview  Run an interview session in the foreground
  next       Complete the current answer in the running session
  stop       Stop the running session
  status     Print the running session state
  devices    List available input devices
  doctor     Run configuration and environment checks
  version    Print version information
  help       Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/mockello/config.jsonc)
  --plain         Print transcript and answers as plain lines (interview only)
  --no-start      Wait for the start key instead of recording immediately (interview only)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
