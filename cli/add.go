package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fahmaliyi/ciphervault/vault"
)

// AddEntryCLI walks through the prompts for a new account entry. An empty
// password prompt offers a generated suggestion, and a weak password asks for
// confirmation before being accepted.
func AddEntryCLI(s *vault.Session, cfg Settings) {
	fmt.Print("\n--- Add New Entry ---\n")

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Account name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Account name is required")
		return
	}
	if _, exists := s.Get(name); exists {
		fmt.Printf("%q already exists and will be overwritten\n", name)
	}

	fmt.Print("Username/Email: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	password := string(ReadPasswordMasked("Password (empty to generate): "))
	if password == "" {
		suggested, err := GeneratePassword(16)
		if err != nil {
			fmt.Println("Error generating password:", err)
			return
		}
		password = suggested
		fmt.Println("Generated:", password)
	}

	if _, label := PasswordStrength(password); label == "Weak" {
		fmt.Print("This password is weak. Use it anyway? [y/N] ")
		answer, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Println("Cancelled")
			return
		}
	} else if !cfg.MeetsPolicy(password) {
		fmt.Println("Note: password does not meet the configured policy")
	}

	fmt.Print("Notes (optional): ")
	notes, _ := reader.ReadString('\n')
	notes = strings.TrimSpace(notes)

	e := vault.Entry{
		Name:     name,
		Username: username,
		Password: password,
		Notes:    notes,
	}

	if err := s.Add(e); err != nil {
		fmt.Println("Error saving vault:", err)
		return
	}

	_, label := PasswordStrength(password)
	fmt.Printf("%s added! Password strength: %s\n", name, label)
}
