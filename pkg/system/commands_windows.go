//go:build windows

package system

import (
	"fmt"
	"os/exec"
	"sync"
)

// windowsCommands drives rundll32 and PowerShell. Sleep prevention holds
// a background PowerShell process that keeps SetThreadExecutionState
// asserted until allowSleep kills it.
type windowsCommands struct {
	mu     sync.Mutex
	keeper *exec.Cmd
}

func newCommands() commands {
	return &windowsCommands{}
}

func (c *windowsCommands) suspend() error {
	return run("rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0")
}

func (c *windowsCommands) lock() error {
	return run("rundll32.exe", "user32.dll,LockWorkStation")
}

// keepAwakeScript asserts ES_CONTINUOUS | ES_SYSTEM_REQUIRED |
// ES_DISPLAY_REQUIRED for the life of the process.
const keepAwakeScript = `
Add-Type -Name P -Namespace Win32 -MemberDefinition '[DllImport("kernel32.dll")] public static extern uint SetThreadExecutionState(uint esFlags);'
[Win32.P]::SetThreadExecutionState(0x80000000 -bor 0x00000001 -bor 0x00000002) | Out-Null
while ($true) { Start-Sleep -Seconds 60 }
`

func (c *windowsCommands) preventSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keeper != nil {
		return nil // already held
	}
	cmd := exec.Command("powershell", "-NoProfile", "-WindowStyle", "Hidden", "-Command", keepAwakeScript)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("powershell keep-awake: %w", err)
	}
	c.keeper = cmd
	return nil
}

func (c *windowsCommands) allowSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keeper == nil {
		return nil
	}
	err := c.keeper.Process.Kill()
	go c.keeper.Wait() // reap
	c.keeper = nil
	return err
}

func (c *windowsCommands) monitorPower(on bool) error {
	// SC_MONITORPOWER broadcast: -1 wakes, 2 powers off.
	state := "2"
	if on {
		state = "-1"
	}
	script := fmt.Sprintf(
		"Add-Type -Name M -Namespace Win32 -MemberDefinition '[DllImport(\"user32.dll\")] public static extern int SendMessage(int hWnd, int msg, int wParam, int lParam);'; [Win32.M]::SendMessage(0xFFFF, 0x0112, 0xF170, %s) | Out-Null",
		state)
	return run("powershell", "-NoProfile", "-Command", script)
}
