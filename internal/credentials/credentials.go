// Package credentials keeps the password of a proof run in locked memory and
// obtains it from the command line, the environment or the terminal.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"
	"golang.org/x/term"

	"inkverify/pkg/proof"
)

// EnvPassword names the environment variable consulted when no password
// argument is given.
const EnvPassword = "INKVERIFY_PASSWORD"

// ErrNoPassword is returned when stdin is closed before a password is read.
var ErrNoPassword = errors.New("no password provided")

// Secret pairs a username with a password held in a locked, non-swappable
// buffer. Destroy wipes it.
type Secret struct {
	username []byte
	password *memguard.LockedBuffer
}

// New moves password into locked memory. The password slice is wiped.
func New(username string, password []byte) *Secret {
	var buf *memguard.LockedBuffer
	if len(password) == 0 {
		buf = memguard.NewBuffer(0)
	} else {
		buf = memguard.NewBufferFromBytes(password)
	}
	return &Secret{username: []byte(username), password: buf}
}

// Username returns the public half of the pair.
func (s *Secret) Username() string { return string(s.username) }

// Credentials returns a view for hashing. The password bytes alias locked
// memory and are only valid until Destroy.
func (s *Secret) Credentials() proof.Credentials {
	return proof.Credentials{Username: s.username, Password: s.password.Bytes()}
}

// Destroy wipes the password. It is safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.password == nil {
		return
	}
	s.password.Destroy()
}

// Source describes where a password may come from.
type Source struct {
	// Arg is the password given on the command line, if any.
	Arg *string
	// Getenv looks up environment variables; os.Getenv when nil.
	Getenv func(string) string
	// In is read when neither Arg nor the environment supply a password.
	In *os.File
	// Out receives the prompt when In is a terminal.
	Out io.Writer
}

// Resolve produces a Secret for username from the first available source:
// the argument, EnvPassword, then In (without echo on a terminal).
func Resolve(username string, src Source) (*Secret, error) {
	if src.Arg != nil {
		return New(username, []byte(*src.Arg)), nil
	}
	getenv := src.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvPassword); v != "" {
		return New(username, []byte(v)), nil
	}
	in := src.In
	if in == nil {
		in = os.Stdin
	}
	pw, err := Read(in, src.Out, fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return nil, err
	}
	return New(username, pw), nil
}

// Read reads one password. On a terminal the prompt is written to out and
// input is not echoed; otherwise a single line is read from in.
func Read(in *os.File, out io.Writer, prompt string) ([]byte, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		if out != nil {
			fmt.Fprint(out, prompt)
		}
		pw, err := term.ReadPassword(fd)
		if out != nil {
			fmt.Fprintln(out)
		}
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return pw, nil
	}
	return ReadLine(in)
}

// ReadLine reads a single line from r, dropping the line terminator.
func ReadLine(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPassword
		}
		return nil, fmt.Errorf("read password: %w", err)
	}
	n := len(line)
	for n > 0 && (line[n-1] == '\n' || line[n-1] == '\r') {
		n--
	}
	return line[:n], nil
}
