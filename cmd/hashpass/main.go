// Command hashpass prints an Argon2id hash for the auth.users section of the
// gatewayd configuration.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v3"

	"gateway-data-backend/internal/auth"
)

func main() {
	fs := flag.NewFlagSet("hashpass", flag.ExitOnError)
	password := fs.String("password", "", "password to hash; read from stdin when empty")
	if err := ff.Parse(fs, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
			os.Exit(1)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
