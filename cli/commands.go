package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fahmaliyi/ciphervault/vault"
)

// RunCommands is the plain line-oriented interface, used when no interactive
// terminal is available for the TUI.
func RunCommands(s *vault.Session, cfg Settings) {
	reader := bufio.NewReader(os.Stdin)
	var nameMap map[int]string

	for {
		fmt.Println("\nCommands: a=add, l=list, f Q=find, s N=show, c N=copy, d N=delete, g=generate, p=change master password, q=quit")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "a":
			AddEntryCLI(s, cfg)
			nameMap = nil
		case "l":
			nameMap = printEntries(s.List())
		case "f":
			if len(parts) < 2 {
				fmt.Println("Specify a search query")
				continue
			}
			query := strings.ToLower(strings.Join(parts[1:], " "))
			nameMap = printEntries(s.Find(func(e vault.Entry) bool {
				return strings.Contains(strings.ToLower(e.Name), query) ||
					strings.Contains(strings.ToLower(e.Username), query)
			}))
		case "g":
			pw, err := GeneratePassword(16)
			if err != nil {
				fmt.Println("Error generating password:", err)
				continue
			}
			_, label := PasswordStrength(pw)
			fmt.Printf("%s (%s)\n", pw, label)
		case "p":
			handleChangePassword(s)
		case "s", "c", "d":
			if len(parts) < 2 {
				fmt.Println("Specify item number")
				continue
			}
			var num int
			fmt.Sscanf(parts[1], "%d", &num)
			name, ok := nameMap[num]
			if !ok {
				fmt.Println("Invalid item number (run l or f first)")
				continue
			}
			switch cmd {
			case "s":
				handleShow(s, name)
			case "c":
				handleCopy(s, name)
			case "d":
				handleDelete(s, name)
				nameMap = nil
			}
		case "q":
			s.Lock()
			fmt.Println("Vault locked. Exiting.")
			return
		default:
			fmt.Println("Unknown command")
		}
	}
}

// --- Individual command handlers ---

func printEntries(entries []vault.Entry) map[int]string {
	if len(entries) == 0 {
		fmt.Println("No entries")
		return nil
	}
	nameMap := make(map[int]string)
	for i, e := range entries {
		num := i + 1
		nameMap[num] = e.Name
		fmt.Printf("%d) %s | %s\n", num, e.Name, e.Username)
	}
	return nameMap
}

func handleShow(s *vault.Session, name string) {
	e, ok := s.Get(name)
	if !ok {
		fmt.Println("Entry not found")
		return
	}
	fmt.Printf("Account: %s\nUsername: %s\nPassword: %s\nNotes: %s\n",
		e.Name, e.Username, e.Password, e.Notes)
}

func handleCopy(s *vault.Session, name string) {
	e, ok := s.Get(name)
	if !ok {
		fmt.Println("Entry not found")
		return
	}
	if err := clipboard.WriteAll(e.Password); err != nil {
		fmt.Println("Error copying to clipboard:", err)
		return
	}
	fmt.Println("Password copied to clipboard. Clearing in 30 seconds...")
	time.AfterFunc(30*time.Second, func() {
		clipboard.WriteAll("")
	})
}

func handleDelete(s *vault.Session, name string) {
	if err := s.Delete(name); err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			fmt.Println("Entry not found")
		} else {
			fmt.Println("Error saving vault:", err)
		}
		return
	}
	fmt.Println("Entry deleted!")
}

func handleChangePassword(s *vault.Session) {
	newPassword, err := ReadNewPassword("New master password: ")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer vault.Zero(newPassword)

	if _, label := PasswordStrength(string(newPassword)); label == "Weak" {
		fmt.Println("Warning: the new master password is weak")
	}

	if err := s.ChangeMasterPassword(newPassword, nil); err != nil {
		fmt.Println("Error changing master password:", err)
		return
	}
	fmt.Println("Master password changed.")
}
