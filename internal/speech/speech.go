// Package speech narrates listening prompts through an installed text-to-speech program.
package speech

import (
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Speaker reads text aloud. Both calls return immediately.
type Speaker interface {
	Speak(text string)
	Stop()
}

// Nop is a Speaker that stays silent.
type Nop struct{}

func (Nop) Speak(string) {}

func (Nop) Stop() {}

// Program is a text-to-speech binary and the arguments placed before the text.
type Program struct {
	Name string
	Args []string
}

// Programs are probed in order by Detect.
var Programs = []Program{
	{Name: "espeak-ng"},
	{Name: "espeak"},
	{Name: "say"},
}

var lookPath = exec.LookPath

// Detect returns a Command for the first installed program, or nil when none is available.
func Detect(logger *zap.Logger) Speaker {
	for _, program := range Programs {
		path, err := lookPath(program.Name)
		if err != nil {
			continue
		}
		return NewCommand(path, program.Args, logger)
	}
	return nil
}

// Command speaks by running an external program with the text as its last argument.
// Starting a new utterance cancels the previous one.
type Command struct {
	path   string
	args   []string
	logger *zap.Logger

	mu      sync.Mutex
	current *exec.Cmd
}

// NewCommand builds a Command for the program at path.
func NewCommand(path string, args []string, logger *zap.Logger) *Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Command{path: path, args: append([]string(nil), args...), logger: logger}
}

// Speak starts narrating text in the background.
func (c *Command) Speak(text string) {
	if text == "" {
		return
	}
	cmd := exec.Command(c.path, append(append([]string(nil), c.args...), text)...)

	// The new process is recorded under the same lock that starts it, so a concurrent Stop
	// either sees it or runs before it exists.
	c.mu.Lock()
	previous := c.current
	c.current = nil
	err := cmd.Start()
	if err == nil {
		c.current = cmd
	}
	c.mu.Unlock()

	kill(previous, c.logger)
	if err != nil {
		c.logger.Warn("speech start failed", zap.String("program", c.path), zap.Error(err))
		return
	}
	go c.wait(cmd)
}

// Stop interrupts the running utterance, if any.
func (c *Command) Stop() {
	c.mu.Lock()
	cmd := c.current
	c.current = nil
	c.mu.Unlock()
	kill(cmd, c.logger)
}

func kill(cmd *exec.Cmd, logger *zap.Logger) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if err := cmd.Process.Kill(); err != nil {
		logger.Debug("speech stop", zap.Error(err))
	}
}

// Speaking reports whether an utterance is still running.
func (c *Command) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *Command) wait(cmd *exec.Cmd) {
	_ = cmd.Wait()
	c.mu.Lock()
	if c.current == cmd {
		c.current = nil
	}
	c.mu.Unlock()
}
