package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoInstallDir          = errors.New("no install location specified")
	ErrInvalidInstallDir     = errors.New("install location does not contain a recognized game executable")
	ErrCannotFindTarget      = errors.New("cannot find target DLL in specified install location")
	ErrVerification          = errors.New("verification failed")
	ErrFailedToRestore       = errors.New("failed to restore original executable")
	ErrPatch                 = errors.New("corrupt patch")
	ErrInvalidState          = errors.New("invalid installer state")
	ErrMultipleInstallations = errors.New("multiple game installations found")
	ErrModInstalledElsewhere = errors.New("mod is already installed under another target")
	ErrUnsupported           = errors.New("not supported on this platform")
)

// VerificationError reports a content hash mismatch. It is always returned
// before anything is written.
type VerificationError struct {
	What     string // file or artifact that was checked
	Expected string
	Found    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification error: %s hash is incorrect: expected %s, found %s", e.What, e.Expected, e.Found)
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

// MultipleInstallationsError lists every installation detected when no
// channel was chosen.
type MultipleInstallationsError struct {
	Found []Installation
}

func (e *MultipleInstallationsError) Error() string {
	names := make([]string, 0, len(e.Found))
	for _, f := range e.Found {
		names = append(names, f.Distribution.String())
	}
	return fmt.Sprintf("%s (%s); choose one with --channel", ErrMultipleInstallations, strings.Join(names, ", "))
}

func (e *MultipleInstallationsError) Is(target error) bool {
	return target == ErrMultipleInstallations
}

// ModInstalledElsewhereError is returned when the mod already occupies a
// different target than the one being installed.
type ModInstalledElsewhereError struct {
	Target Target
}

func (e *ModInstalledElsewhereError) Error() string {
	return fmt.Sprintf("Hachimi is already installed as %s; uninstall it first", e.Target.FileName())
}

func (e *ModInstalledElsewhereError) Is(target error) bool {
	return target == ErrModInstalledElsewhere
}
