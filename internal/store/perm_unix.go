//go:build unix

package store

import (
	"fmt"
	"os"
	"syscall"
)

// checkPrivateDir makes sure dir is a real directory owned by uid and closed
// to group and others. A directory we own with looser bits is tightened to
// 0700; one owned by anybody else is refused.
func checkPrivateDir(dir string, uid int) error {
	info, err := os.Lstat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("cannot read owner of %s", dir)
	}

	if int(st.Uid) != uid {
		return fmt.Errorf("%s is owned by uid %d, not %d", dir, st.Uid, uid)
	}

	if info.Mode().Perm()&0o077 != 0 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return fmt.Errorf("failed to restrict %s: %w", dir, err)
		}
	}

	return nil
}
