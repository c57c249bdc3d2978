package tui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matheus3301/msgr/internal/messenger"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

type commandSpec struct {
	name        string
	aliases     []string
	usage       string
	description string
	feature     messenger.Feature // "" when every layout has it
	needsArgs   bool
}

var commands = []commandSpec{
	{name: "upload", usage: "upload <path>", description: "Save a file to favorites", feature: messenger.FeatureFileUpload, needsArgs: true},
	{name: "avatar", usage: "avatar <path>", description: "Upload a new avatar image", feature: messenger.FeatureSettings, needsArgs: true},
	{name: "nick", usage: "nick <name>", description: "Change the display name", feature: messenger.FeatureSettings, needsArgs: true},
	{name: "search", aliases: []string{"find"}, usage: "search <nick>", description: "Look a user up", feature: messenger.FeatureSearch},
	{name: "chat", usage: "chat <nick>", description: "Open a chat with a user", feature: messenger.FeatureChats, needsArgs: true},
	{name: "favorites", aliases: []string{"fav"}, usage: "favorites", description: "Show favorites", feature: messenger.FeatureFavorites},
	{name: "chats", usage: "chats", description: "Show the chat list", feature: messenger.FeatureChats},
	{name: "settings", usage: "settings", description: "Open settings", feature: messenger.FeatureSettings},
	{name: "reload", usage: "reload", description: "Fetch everything again"},
	{name: "logout", usage: "logout", description: "Sign out and forget the cached data"},
	{name: "help", aliases: []string{"h"}, usage: "help", description: "Show this help"},
	{name: "quit", aliases: []string{"q"}, usage: "quit", description: "Quit"},
}

// lookupCommand resolves a command name or alias.
func lookupCommand(name string) (commandSpec, bool) {
	for _, c := range commands {
		if c.name == name || slices.Contains(c.aliases, name) {
			return c, true
		}
	}
	return commandSpec{}, false
}

// availableCommands lists the commands the layout offers, in display order.
func availableCommands(layout messenger.Layout) []commandSpec {
	var out []commandSpec
	for _, c := range commands {
		if c.feature == "" || layout.Has(c.feature) {
			out = append(out, c)
		}
	}
	return out
}

// expandPath resolves a leading ~ in a path typed at the prompt.
func expandPath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}
