// hashpw prints the bcrypt hash of a password for the users file.
//
//	go run ./cmd/hashpw 's3cret'
package main

import (
	"fmt"
	"os"

	"helpdesk/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	h, err := utils.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashpw:", err)
		os.Exit(1)
	}
	fmt.Println(h)
}
