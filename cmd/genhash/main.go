// Command genhash prints the bcrypt hash of a password, for seeding users by hand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := pflag.Int("cost", 12, "bcrypt cost")
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: genhash [--cost N] <password>")
		os.Exit(2)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(pflag.Arg(0)), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
