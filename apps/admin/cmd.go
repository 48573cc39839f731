package main

import (
	"database/sql"
	"flag"
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/core/review"
	"github.com/clinigoal/backoffice/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help")
)

type commandLine struct {
	db     *sql.DB
	usrSvc *user.Service
	paySvc *payment.Service
	revSvc *review.Service
}

func (cli *commandLine) printUsage() {
	usage := `Usage:
  addadmin -name NAME -email EMAIL	Create or update an admin account (prompts for password)
  syncpayments				Sync paid enrollments into the approvals working set
  syncreviews				Sync reviews from all sources into the moderation working set
  migrate COMMAND			Run database migrations (up, down, status, ...)
`
	fmt.Print(usage)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminName := addAdminCmd.String("name", "", "The admin's full name")
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email address")

	switch args[1] {
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminName == "" || *addAdminEmail == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Password: ")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return errors.Wrap(err, "reading password")
		}
		return cli.addAdmin(*addAdminName, *addAdminEmail, string(pwd))
	case "syncpayments":
		return cli.syncPayments()
	case "syncreviews":
		return cli.syncReviews()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
