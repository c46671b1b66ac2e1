package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fahmaliyi/ciphervault/cli"
	"github.com/fahmaliyi/ciphervault/vault"
	"golang.org/x/term"
)

const maxLoginAttempts = 3

func main() {
	dataDir, err := cli.GetDataDir()
	if err != nil {
		fmt.Println("Error determining data directory:", err)
		os.Exit(1)
	}
	settings := cli.LoadSettings(dataDir)

	session, err := openSession(dataDir)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer session.Lock()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		cli.RunTUI(session, settings)
	} else {
		cli.RunCommands(session, settings)
	}
}

func openSession(dataDir string) (*vault.Session, error) {
	if !vault.Exists(dataDir) {
		fmt.Println("No vault found. Setting up new master password.")
		master, err := cli.ReadNewPassword("Set master password: ")
		if err != nil {
			return nil, err
		}
		defer vault.Zero(master)

		if _, label := cli.PasswordStrength(string(master)); label == "Weak" {
			fmt.Println("Warning: the master password is weak")
		}

		session, err := vault.Setup(dataDir, master, nil)
		if err != nil {
			return nil, fmt.Errorf("error creating vault: %w", err)
		}
		return session, nil
	}

	for attempt := 1; ; attempt++ {
		master := cli.ReadPasswordMasked("Enter master password: ")
		session, err := vault.Login(dataDir, master)
		vault.Zero(master)
		if err == nil {
			return session, nil
		}

		switch {
		case errors.Is(err, vault.ErrAuthFailed):
			if attempt < maxLoginAttempts {
				fmt.Println("Wrong master password, try again.")
				continue
			}
			return nil, errors.New("too many failed attempts")
		case errors.Is(err, vault.ErrDecryption):
			return nil, errors.New("vault file cannot be decrypted: it is corrupted or was written with a different master password")
		case errors.Is(err, vault.ErrCorrupt):
			return nil, errors.New("vault file is corrupted")
		default:
			return nil, fmt.Errorf("error opening vault: %w", err)
		}
	}
}
