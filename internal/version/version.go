package version

// GitSHA is the commit the binary was built from. It is set with
//
//	go build -ldflags "-X github.com/abdullathedruid/editline/internal/version.GitSHA=$(git rev-parse --short HEAD)"
var GitSHA = "dev"

// Short returns the commit, or "dev" for local builds.
func Short() string {
	return GitSHA
}

// String returns the version line printed by editline version.
func String() string {
	return "editline " + Short()
}
