//go:build mage

// Package main provides build targets for the bookseed project using Mage.
//
// Usage:
//
//	mage build           Compile the bookseed binary to bin/
//	mage test            Run unit tests
//	mage testIntegration Run the Postgres tests (needs Docker)
//	mage demo            Run the full demonstration against a scratch SQLite dir
//	mage lint            Run golangci-lint
//	mage clean           Remove build artifacts
//	mage install         Install bookseed to GOPATH/bin
//	mage stats           Print Go lines of code
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo          = "go"
	binaryName     = "bookseed"
	binaryDir      = "bin"
	cmdDir         = "./cmd/bookseed"
	integrationTag = "integration"
)

// Build compiles the bookseed binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs the unit tests. They use SQLite only.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestIntegration runs every test including the Postgres ones, which start
// a container through testcontainers.
func TestIntegration() error {
	return sh.RunV(binGo, "test", "-tags", integrationTag, "-count=1", "./internal/bookdb/...")
}

// Demo builds the binary and runs it against a throwaway data directory.
func Demo() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "bookseed-demo-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	return sh.RunV(filepath.Join(binaryDir, binaryName),
		"--config-dir", filepath.Join(dir, "config"),
		"--url", filepath.Join(dir, "data"),
		"run")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
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
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Stats prints Go lines of code, split into production and test code.
func Stats() error {
	var prodLines, testLines int

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch path {
			case "vendor", ".git", binaryDir, "magefiles", "_examples":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
		} else {
			prodLines += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines of code (Go, total):      %d\n", prodLines+testLines)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
