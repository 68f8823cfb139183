// Package cli provides the BookExpert command-line client.
//
// NewRootCmd builds a cobra command tree whose persistent flags are the
// configuration flags. Before any subcommand runs the configuration is
// loaded and an App is assembled from it: logger, SQLite cache, REST
// client, services, notification sink and the optional image mirror.
//
// Commands:
//   - objects list|refresh|create|update|delete|watch
//   - images import|list|delete|export
//   - settings show|notifications|delete-notifications
//   - auth login|whoami|logout
//   - pdf fetch
//   - version
package cli
