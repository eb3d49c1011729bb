package main

import (
	"errors"
	"fmt"

	"github.com/chzyer/readline"
)

func newReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "handle> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return rl, nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, readline.ErrInterrupt)
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd.name))
	}

	return readline.NewPrefixCompleter(items...)
}
