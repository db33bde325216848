// Package util holds small helpers shared by the comterm packages.
package util

import (
	"os"
	"os/user"

	"github.com/pkg/errors"
)

// Homedir returns the home directory of the current user. $HOME wins
// when set; otherwise the user database is consulted.
func Homedir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "failed to look up home directory")
	}
	if u.HomeDir == "" {
		return "", errors.New("error: home directory is not set")
	}
	return u.HomeDir, nil
}
