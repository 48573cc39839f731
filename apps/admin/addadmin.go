package main

import (
	"github.com/clinigoal/backoffice/core/user"
)

func (cli *commandLine) addAdmin(name, email, pwd string) error {
	nu := user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
	}
	if err := nu.Validate(); err != nil {
		return err
	}

	usr := user.User{
		Name:     nu.Name,
		Email:    nu.Email,
		IsAdmin:  true,
		IsActive: true,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return err
	}
	saved, err := cli.usrSvc.UpdateOrCreate(usr)
	if err != nil {
		return err
	}
	logger.Printf("admin account %q saved\n", saved.Email)
	return nil
}
