//go:build !unix

package store

// checkPrivateDir is a no-op where directory ownership is governed by ACLs.
func checkPrivateDir(string, int) error {
	return nil
}
