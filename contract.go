package hcv

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/types"
)

// checkContract
//
// Reads the identity of a freshly opened module and decides whether it may be registered under the requested
// name. A missing symbol, a declared name other than the requested one or a missing license refuse the module; the
// license text itself is not checked.
// A contract version that differs from the host build on its first 24 characters, or a version that is not
// MAJOR.MINOR.PATCH, are only reported.
func checkContract(mod Module, requested, path, buildID string, logger *zap.Logger) (types.Details, error) {
	name, ok := mod.String(SymName)
	if !ok {
		return types.Details{}, fmt.Errorf("%w: %s has no %s", ErrMissingSymbol, path, SymName)
	}

	if name != requested {
		return types.Details{}, fmt.Errorf("%w: %s declares %q, requested as %q", ErrNameMismatch, path, name, requested)
	}

	license, ok := mod.String(SymLicense)
	if !ok {
		return types.Details{}, fmt.Errorf("%w: %s has no %s", ErrMissingLicense, path, SymLicense)
	}

	gitAPI, ok := mod.String(SymGitAPI)
	if !ok {
		return types.Details{}, fmt.Errorf("%w: %s has no %s", ErrMissingSymbol, path, SymGitAPI)
	}

	version, ok := mod.String(SymVersion)
	if !ok {
		return types.Details{}, fmt.Errorf("%w: %s has no %s", ErrMissingSymbol, path, SymVersion)
	}

	if !mod.HasFunc(SymInitWeb) {
		return types.Details{}, fmt.Errorf("%w: %s has no %s", ErrMissingSymbol, path, SymInitWeb)
	}

	logger.Info("plugin opened",
		zap.String("plugin", name),
		zap.String("path", path),
		zap.String("license", license),
		zap.String("gitapi", gitAPI),
		zap.String("version", version))

	if !sameBuild(gitAPI, buildID) {
		logger.Warn("plugin gitapi mismatch",
			zap.String("plugin", name),
			zap.String("expected", buildID),
			zap.String("got", gitAPI))
	}

	if !isSemverValid(version) {
		logger.Warn("plugin version is not a semantic version", zap.String("plugin", name), zap.String("version", version))
	}

	return types.Details{
		Name:            name,
		License:         license,
		ContractVersion: gitAPI,
		Version:         version,
		Path:            path,
	}, nil
}

// isSemverValid checks for a plain MAJOR.MINOR.PATCH version
func isSemverValid(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return false
	}

	for _, part := range parts {
		if !isValidNumber(part) {
			return false
		}
	}
	return true
}

// isValidNumber
// helper func used by isSemverValid
func isValidNumber(str string) bool {
	if len(str) == 0 || str[0] == '-' {
		return false
	}

	for _, c := range str {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
