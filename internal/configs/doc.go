// Package configs manages the envcloak configuration file.
//
// Configuration is stored in TOML format. The file is located at the path
// given by --config, else $ENVCLOAK_CONFIG, else:
//
//	<user config dir>/envcloak/config.toml
//
// A missing file is not an error; DefaultConfig is used instead.
//
// # Format
//
//	[defaults]
//	extension = ".enc"
//	workers = 4
//	gitignore = true
//
//	[audit]
//	path = ""
//
// Keys left out of the file keep their default values.
package configs
