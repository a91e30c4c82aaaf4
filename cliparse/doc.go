/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Flags take precedence; environment variables fill the gaps.

# Settings

Required:

  - DATABASE_URL (-d): sqlite file path or postgres connection string
  - ADMIN_KEY_SALT (-admin-salt): secret for admin key HMAC
  - GAME_SLUG_SALT (-slug-salt): secret for share slug generation

Optional:

  - PORT (-p): server port (default: 3419)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - VARIANTS_FILE (-variants): YAML file overriding variant defaults
  - BASE_URL (-base-url): public base URL for share links
*/
package cliparse
