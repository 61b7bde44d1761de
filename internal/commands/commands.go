package commands

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command defines the interface for all bot commands
type Command interface {
	// Name returns the command name (without /)
	Name() string
	// Description returns the command description for help text
	Description() string
	// Execute handles the command execution
	Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig
}

// Registry holds all available commands
type Registry struct {
	commands map[string]Command
	order    []string
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) {
	if _, exists := r.commands[cmd.Name()]; !exists {
		r.order = append(r.order, cmd.Name())
	}
	r.commands[cmd.Name()] = cmd
}

// Get returns a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetAll returns all registered commands in registration order
func (r *Registry) GetAll() []Command {
	cmds := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// GenerateHelpText generates help text for all commands
func (r *Registry) GenerateHelpText() string {
	var b strings.Builder
	b.WriteString("🧩 Полный список команд\n")
	for _, cmd := range r.GetAll() {
		b.WriteString("/" + cmd.Name() + " — " + cmd.Description() + "\n")
	}
	return b.String()
}
