// Command hash-generator prints a bcrypt hash for a learner password, for
// seeding users directly into the database.
//
// Usage:
//
//	echo -n 'correct-horse-battery' | hash-generator [-cost 12]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/lumen-api/internal/domain"
	"github.com/phrazzld/lumen-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *cost); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

// run reads one password per line from in and writes one hash per line to out.
func run(in io.Reader, out io.Writer, cost int) error {
	verifier := auth.NewBcryptVerifier(cost)

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		password := strings.TrimRight(scanner.Text(), "\r")
		if password == "" {
			continue
		}

		if err := domain.ValidatePassword(password); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		hash, err := verifier.Hash(password)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}

	return scanner.Err()
}
