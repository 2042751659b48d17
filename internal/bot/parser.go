package bot

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const prefix string = "!"

const (
	COMMAND_TOP     = iota
	COMMAND_TOPAD   = iota
	COMMAND_TOPPR   = iota
	COMMAND_STATUS  = iota
	COMMAND_REFRESH = iota
	COMMAND_HELP    = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
}

var commands map[string]int = map[string]int{
	"top":     COMMAND_TOP,
	"topad":   COMMAND_TOPAD,
	"toppr":   COMMAND_TOPPR,
	"status":  COMMAND_STATUS,
	"refresh": COMMAND_REFRESH,
	"help":    COMMAND_HELP,
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
}

func Parse(message string) ParseResult {

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])

	// Match the command. None of them take arguments
	command, ok := commands[commandString]
	if !ok {
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK}
}
