package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/muurk/autoinstall/internal/messages"
	"github.com/muurk/autoinstall/internal/profile"
)

// DefaultPackages is the package list used when none has been configured.
var DefaultPackages = []string{"moos"}

// ErrAlreadyExists is returned by GenerateDefaults when it would overwrite a file.
var ErrAlreadyExists = errors.New("file already exists")

// Mutex for atomic file writes
var fileMutex sync.Mutex

// LoadPackages reads a package list, one name per line. Surrounding
// whitespace is trimmed and blank lines are skipped.
func LoadPackages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the package list: %w", err)
	}
	defer f.Close()

	var packages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			packages = append(packages, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read the package list: %w", err)
	}
	return packages, nil
}

// DumpPackages writes a package list, one name per line.
func DumpPackages(path string, packages []string) error {
	data := []byte(strings.Join(packages, "\n") + "\n")
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write the package list: %w", err)
	}
	return nil
}

// LoadProfile reads a profile document. Invalid entries are reported to log
// and replaced by defaults; only an unreadable or unparsable file is an error.
func LoadProfile(log *messages.Log, path string) (*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the profile: %w", err)
	}

	p, err := profile.Decode(log, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load the profile from %s: %w", path, err)
	}
	return p, nil
}

// DumpProfile writes p as a YAML document with an explanatory header.
func DumpProfile(path string, p *profile.Profile) error {
	body, err := p.Encode()
	if err != nil {
		return err
	}

	header := []byte(`# autoinstall profile
# Every key is optional; missing keys keep their default value.
# Leave "device" null to pick a device interactively.
#
# Security Note: this file holds the root and user passwords in clear text.

`)
	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(body)

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write the profile: %w", err)
	}
	return nil
}

// GenerateDefaults writes the default profile and package list into the
// configuration directory. It refuses to overwrite existing files.
func GenerateDefaults(paths Paths, log *messages.Log) error {
	for _, path := range []string{paths.Packages, paths.Profile} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
	}

	if err := paths.EnsureDir(); err != nil {
		return err
	}

	if err := DumpPackages(paths.Packages, DefaultPackages); err != nil {
		return err
	}
	if err := DumpProfile(paths.Profile, profile.New(log)); err != nil {
		return err
	}
	return nil
}

// writeAtomic writes data to a temporary file and renames it over path.
func writeAtomic(path string, data []byte) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on error
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
