package services

import (
	"errors"
	"testing"

	"github.com/thesurvey/api/internal/platform/logger"
)

type recordedCommand struct {
	name string
	err  error
	ran  *[]string
}

func (c *recordedCommand) Execute() error {
	*c.ran = append(*c.ran, c.name)
	return c.err
}

func TestExecuteCommandsRunsInOrder(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	executor := NewCommandExecutor(log)

	var ran []string
	cmds := []Command{
		&recordedCommand{name: "first", ran: &ran},
		&recordedCommand{name: "second", ran: &ran},
		&recordedCommand{name: "third", ran: &ran},
	}
	if err := executor.ExecuteCommands(cmds); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(ran) != 3 || ran[0] != "first" || ran[1] != "second" || ran[2] != "third" {
		t.Fatalf("unexpected run order: %v", ran)
	}
}

func TestExecuteCommandsStopsAtFirstFailure(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	executor := NewCommandExecutor(log)

	boom := errors.New("boom")
	var ran []string
	cmds := []Command{
		&recordedCommand{name: "first", ran: &ran},
		&recordedCommand{name: "second", err: boom, ran: &ran},
		&recordedCommand{name: "third", ran: &ran},
	}
	err = executor.ExecuteCommands(cmds)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected execution to stop after the failure, ran: %v", ran)
	}
}

func TestExecuteCommandsEmpty(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if err := NewCommandExecutor(log).ExecuteCommands(nil); err != nil {
		t.Fatalf("empty command list: %v", err)
	}
}
