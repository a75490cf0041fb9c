package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

func (a *App) getStatus() string {
	a.mu.Lock()
	mode := a.mode
	a.mu.Unlock()

	st := a.actions.State().Snapshot()

	var parts []string
	if mode != "" {
		parts = append(parts, string(mode))
	}
	if st.Loading {
		parts = append(parts, "busy")
	}
	if st.Error != "" {
		parts = append(parts, "error")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Login asks for the shared secret and verifies it by loading the list.
func (a *App) Login(ctx context.Context) error {
	secret, err := getPassword("Enter secret key", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)
	if len(secret) == 0 {
		return a.report(errors.New("secret key is empty"))
	}

	a.client.SetSecretKey(string(secret))
	if err := a.List(ctx); err != nil {
		a.setLoggedIn(false)
		return err
	}

	a.setLoggedIn(true)
	printlnFn("Success!")
	return nil
}

// State prints the application state: flags, the last error and every
// tracked operation in start order.
func (a *App) State(ctx context.Context) error {
	st := a.actions.State().Snapshot()

	fmt.Fprintf(a.out, "files: %d  loading: %t  upload progress: %d%%\n", len(st.Files), st.Loading, st.UploadProgress)
	if st.Error != "" {
		fmt.Fprintf(a.out, "error: %s\n", st.Error)
	}

	ops := lo.Values(st.Operations)
	slices.SortFunc(ops, func(x, y appstate.OpStatus) int {
		if c := x.StartedAt.Compare(y.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	for _, op := range ops {
		line := fmt.Sprintf("  %-8s %-9s %s", op.Kind, op.Phase, op.StartedAt.Format("15:04:05"))
		if op.Error != "" {
			line += "  " + op.Error
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) ClearError(ctx context.Context) error {
	a.actions.State().ClearError()
	return nil
}
