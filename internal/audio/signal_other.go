//go:build !unix

package audio

import (
	"errors"
	"os"
)

func pauseProcess(*os.Process) error  { return errors.ErrUnsupported }
func resumeProcess(*os.Process) error { return errors.ErrUnsupported }

// Without POSIX signals the recorder cannot finish its file gracefully.
func interruptProcess(p *os.Process) error { return p.Kill() }
