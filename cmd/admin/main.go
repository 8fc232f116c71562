// Command admin manages the user directory and mints access tokens.
//
//	admin create-user -name "Ana" -department eng -role employee
//	admin issue-token -user <id>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/app"
	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <create-user|issue-token> [flags]")
}

func run(command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	repos, err := app.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	services, err := app.NewServices(cfg, repos)
	if err != nil {
		return err
	}

	var result interface{}
	switch command {
	case "create-user":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		req := user.CreateUserRequest{}
		fs.StringVar(&req.FullName, "name", "", "full name")
		fs.StringVar(&req.DepartmentID, "department", "", "department id")
		fs.StringVar(&req.DepartmentName, "department-name", "", "department display name")
		fs.StringVar(&req.Role, "role", string(user.RoleEmployee), "admin, manager or employee")
		if err := fs.Parse(args); err != nil {
			return err
		}
		result, err = services.User.CreateUser(ctx, req)

	case "issue-token":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		req := auth.IssueTokenRequest{}
		fs.StringVar(&req.UserID, "user", "", "user id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		result, err = services.Auth.IssueToken(ctx, req)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
