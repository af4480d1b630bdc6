package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"

	"schoolhub/core/session"
	"schoolhub/restapi"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	api     *restapi.Client
	sessSvc *session.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME -role ROLE [-email EMAIL] - create an account; the password is prompted next")
	fmt.Println("  ping - check that the backend is reachable")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The new account's username.")
	addUserRole := addUserCmd.String("role", "admin", "The new account's role.")
	addUserEmail := addUserCmd.String("email", "", "The new account's email (optional).")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserRole, *addUserEmail, string(pwd))
	case "ping":
		return cli.ping()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addUser(uname, role, email, pwd string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reg := session.Registration{
		Username:        uname,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := cli.sessSvc.Register(ctx, reg); err != nil {
		return err
	}
	fmt.Printf("user %q created\n", uname)
	return nil
}

func (cli *commandLine) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cli.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("backend is reachable")
	return nil
}
