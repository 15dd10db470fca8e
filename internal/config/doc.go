// Package config loads the shelfwatch TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicit path argument
//  2. The SHELFWATCH_CONFIG environment variable
//  3. ~/.config/shelfwatch/config.toml
//
// A missing file is not an error; defaults are used instead so a bare
// `shelfwatch check <id>` works without any setup.
//
// # TOML Format
//
//	base_url = "https://zones.buecherhallen.de/app_webuser/WebUserSvc.asmx"
//	request_timeout_seconds = 30
//	concurrency = 4
//	requests_per_second = 2
//	log_level = "info"
//
//	[state]
//	driver = "file"            # file | sqlite | postgres | redis | s3
//	path = "~/.local/state/shelfwatch/state.toml"
//	dsn = ""                   # postgres
//	redis_addr = "127.0.0.1:6379"
//	redis_key = "shelfwatch:state"
//	s3_bucket = ""
//	s3_key = "shelfwatch/state.toml"
//
//	[notify]
//	console = true
//	ifttt_key = ""
//	ifttt_event = "hhpl"
//	link_template = "https://www.buecherhallen.de/suchergebnis-detail/medium/%s.html"
//
//	[metrics]
//	pushgateway_url = ""
//	job = "shelfwatch"
//
// Every field is optional. Blank strings fall back to defaults and tilde
// paths are expanded.
//
// # Environment
//
// Secrets are usually kept out of the file. LoadDotEnv reads a .env file into
// the process environment, after which Load applies these overrides:
//
//   - SHELFWATCH_IFTTT_KEY
//   - SHELFWATCH_STATE_DSN
//   - SHELFWATCH_STATE_DRIVER, SHELFWATCH_STATE_PATH
//   - SHELFWATCH_REDIS_PASSWORD
//   - SHELFWATCH_S3_ACCESS_KEY_ID, SHELFWATCH_S3_SECRET_ACCESS_KEY
//   - SHELFWATCH_PUSHGATEWAY_URL
//   - SHELFWATCH_BASE_URL
//
// # Validation
//
// Load rejects a request timeout above 30 seconds, an unknown state driver,
// a postgres driver without a DSN, an s3 driver without a bucket, and a link
// template without exactly one %s.
package config
