//go:build windows

package launch

import "os/exec"

func configureProcess(*exec.Cmd) {}

func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
