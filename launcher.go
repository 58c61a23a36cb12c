package pccasset

import (
	"os/exec"

	"github.com/charmbracelet/log"
)

// Launcher starts an external program without waiting for it.
type Launcher interface {
	Launch(name string, args ...string) error
}

// ExecLauncher runs programs as detached child processes. Their exit is
// only logged.
type ExecLauncher struct {
	Logger *log.Logger
}

func (l *ExecLauncher) Launch(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("launched", "cmd", name, "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("external process failed", "cmd", name, "err", err)
			return
		}
		logger.Debug("external process done", "cmd", name)
	}()
	return nil
}
