// Package main provides build targets for the relations project using Mage.
//
// Usage:
//
//	mage build             Compile relations binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:cover        Run unit tests with a coverage profile
//	mage lint              Run golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install relations to GOPATH/bin
//	mage serve             Build and start the HTTP server
//	mage stats             Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "relations"
	binaryDir  = "bin"
	cmdDir     = "./cmd/relations"
)

// Build compiles the relations binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(coverProfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, binaryPath())
}

// Serve builds the binary and runs the HTTP server in the foreground.
// RELATIONS_ADDR overrides the configured listen address.
func Serve() error {
	mg.Deps(Build)
	args := []string{"serve"}
	if addr := os.Getenv("RELATIONS_ADDR"); addr != "" {
		args = append(args, "--addr", addr)
	}
	return sh.RunV(binaryPath(), args...)
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
