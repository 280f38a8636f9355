// Package commands defines the heroes CLI.
//
// Commands
//
//   - list                 Print every hero
//   - get <id>...          Fetch heroes by id, concurrently when several are given
//   - search <term>        Print heroes whose name matches term
//   - add <name>           Create a hero; the server assigns the id
//   - delete <id>          Delete a hero
//   - update <id> <name>   Rename a hero
//   - messages [clear]     Print or clear the persistent message log
//
// The root command loads configuration, initializes logging on stderr and
// builds the client runtime before any subcommand runs. Hero output is JSON
// on stdout. The gateway never fails, so a missing result is reported as
// "hero not found" with a non-zero exit status.
package commands
