package environment

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvConfig carries the optional environment knobs shared by the CLIs.
type EnvConfig struct {
	// Cookie is sent with every page request, for judges that show full
	// statements only to a logged-in session.
	Cookie string
	// CacheDir overrides the XDG cache location for fetched pages.
	CacheDir string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// ReadEnvConfig loads .env when present and reads the TEMPLATEGEN_*
// variables. Every field is optional.
func ReadEnvConfig() *EnvConfig {
	_ = godotenv.Load()

	return &EnvConfig{
		Cookie:    os.Getenv("TEMPLATEGEN_COOKIE"),
		CacheDir:  os.Getenv("TEMPLATEGEN_CACHE_DIR"),
		UserAgent: os.Getenv("TEMPLATEGEN_USER_AGENT"),
	}
}
