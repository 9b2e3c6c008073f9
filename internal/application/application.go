package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "gistvault"

	// EnvPrefix prefixes every environment variable read by gistvault
	EnvPrefix = "GISTVAULT_"

	// EnvHome overrides the application directory (useful for tests and portable installs)
	EnvHome = EnvPrefix + "HOME"
)

// Version is overridden at build time with -ldflags "-X ...application.Version=v1.2.3".
var Version = "dev"

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the gistvault configuration directory path.
// Linux: ~/.config/gistvault (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\gistvault (via os.UserCacheDir)
// GISTVAULT_HOME takes precedence on every platform.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

func lazyLoad() {
	if dir := os.Getenv(EnvHome); dir != "" {
		appDir = dir
		return
	}

	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}

// GetRuntimeDirectory returns the directory for state that must not survive a
// logout or reboot. XDG_RUNTIME_DIR is used when set; otherwise a per-user
// directory under the OS temp dir.
func GetRuntimeDirectory() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, AppName)
	}

	return filepath.Join(os.TempDir(), AppName+"-"+strconv.Itoa(os.Getuid()))
}
