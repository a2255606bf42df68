//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var errPasswordPromptNoTerminal = errors.New("stdin is not a terminal")

// readPasswordNoEcho turns terminal echo off for a single line and restores
// the previous mode afterwards.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	current, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPasswordPromptNoTerminal, err)
	}
	restore := *current
	silent := restore
	silent.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &silent); err != nil {
		return nil, err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &restore)
	}()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
