package constants_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sideko-inc/sideko/pkg/constants"
)

// Example demonstrates using constants for common operations
func Example() {
	dir, err := os.MkdirTemp("", "sideko-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, constants.DotfileName)
	if err := os.WriteFile(file, []byte("SIDEKO_BASE_URL=\"http://localhost:8080/v1\"\n"), constants.SecureFilePermissions); err != nil {
		panic(err)
	}

	fmt.Printf("Created %s with %o permissions\n", constants.DotfileName, constants.SecureFilePermissions)
	// Output:
	// Created .sideko with 600 permissions
}

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	fmt.Println("login:", constants.LoginTimeout)
	fmt.Println("deploy:", constants.DeploymentTimeout)
	fmt.Println("poll:", constants.DeploymentPollInterval)
	// Output:
	// login: 5m0s
	// deploy: 10m0s
	// poll: 2s
}
