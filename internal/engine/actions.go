package engine

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cheru-app/cheru/internal/index"
)

// Launch activates a result. Dispatch is by kind, never by inspecting the
// exec string, so synthetic records cannot be mistaken for paths. Policy
// denials from the gate propagate unchanged: a denied launch fails loudly
// and performs no side effect.
func (e *Engine) Launch(result Result) error {
	switch result.Kind {
	case index.KindCalculator:
		// The value is already on screen; nothing to spawn.
		return nil
	case index.KindWebSearch:
		return e.openExternal(result.Exec)
	case index.KindApp:
		return e.launchApp(result.Exec)
	case index.KindSystem:
		return e.runSystemCommand(result.Exec)
	case index.KindFolder, index.KindImage, index.KindFile:
		return e.OpenPath(result.Exec)
	default:
		return fmt.Errorf("cannot launch result kind %s", result.Kind)
	}
}

// launchApp starts an application. Desktop-entry field codes (%u, %F, ...)
// are stripped first; the remaining argv[0] must pass the launch allowlist.
func (e *Engine) launchApp(execLine string) error {
	cleaned := stripFieldCodes(execLine)

	if runtime.GOOS == "darwin" && strings.Contains(cleaned, ".app") {
		canonical, err := e.gate.CheckLaunch(cleaned)
		if err != nil {
			return err
		}
		return startDetached("open", "-a", canonical)
	}

	parts := strings.Fields(cleaned)
	if len(parts) == 0 {
		return fmt.Errorf("empty exec command")
	}
	canonical, err := e.gate.CheckLaunch(parts[0])
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"exec": canonical}).Info("launching application")
	return startDetached(canonical, parts[1:]...)
}

// OpenPath opens a filesystem path with the platform opener. The path must
// pass the home restriction.
func (e *Engine) OpenPath(path string) error {
	canonical, err := e.gate.CheckOpen(path)
	if err != nil {
		return err
	}
	return e.openExternal(canonical)
}

func (e *Engine) openExternal(target string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return startDetached(opener, target)
}

func (e *Engine) runSystemCommand(execID string) error {
	argv, ok := systemCommands()[execID]
	if !ok || len(argv) == 0 {
		return fmt.Errorf("unknown system command %q", execID)
	}
	canonical, err := e.gate.CheckLaunch(argv[0])
	if err != nil {
		return err
	}
	return startDetached(canonical, argv[1:]...)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	// Reap the child when it exits; the launcher does not wait on it.
	go func() { _ = cmd.Wait() }()
	return nil
}

// stripFieldCodes removes freedesktop field codes (%u, %U, %f, %F, ...) from
// an Exec line before launching.
func stripFieldCodes(execLine string) string {
	parts := strings.Fields(execLine)
	kept := parts[:0]
	for _, part := range parts {
		if strings.HasPrefix(part, "%") {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, " ")
}

type systemCommand struct {
	id   string
	name string
	argv []string
}

// platformSystemCommands is ordered; the slice order is the bucket's
// enumeration order.
func platformSystemCommands() []systemCommand {
	switch runtime.GOOS {
	case "darwin":
		return []systemCommand{
			{id: "system:lock", name: "Lock Screen", argv: []string{"pmset", "displaysleepnow"}},
			{id: "system:sleep", name: "Sleep", argv: []string{"pmset", "sleepnow"}},
		}
	case "linux":
		return []systemCommand{
			{id: "system:lock", name: "Lock Screen", argv: []string{"loginctl", "lock-session"}},
			{id: "system:suspend", name: "Suspend", argv: []string{"systemctl", "suspend"}},
		}
	default:
		return nil
	}
}

// systemResults builds the static system-command bucket for this platform.
func systemResults() []Result {
	commands := platformSystemCommands()
	results := make([]Result, 0, len(commands))
	for _, command := range commands {
		results = append(results, Result{
			Name:        command.name,
			Exec:        command.id,
			Description: "System command",
			Kind:        index.KindSystem,
		})
	}
	return results
}

func systemCommands() map[string][]string {
	commands := platformSystemCommands()
	byID := make(map[string][]string, len(commands))
	for _, command := range commands {
		byID[command.id] = command.argv
	}
	return byID
}
